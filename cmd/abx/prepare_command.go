package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"abxkit/internal/abx"
	"abxkit/internal/config"
	"abxkit/internal/logging"
	"abxkit/internal/results"
)

func newPrepareCommand(ctx *commandContext) *cobra.Command {
	var design designFlags
	var outPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Generate and randomize a trial set without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			d, err := design.resolve(cmd, cfg)
			if err != nil {
				return err
			}
			set, seed, err := buildTrialSet(d, logging.NewComponentLogger(logger, "prepare"))
			if err != nil {
				return err
			}

			if target := strings.TrimSpace(outPath); target != "" {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				if err := results.WriteTrials(expanded, set); err != nil {
					return err
				}
				outPath = expanded
			}

			if asJSON {
				return writeJSON(cmd, struct {
					Seed   int64        `json:"seed"`
					RefOnA int          `json:"ref_on_a"`
					Trials abx.TrialSet `json:"trials"`
				}{seed, set.RefOnA(), set})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTrialSet(set))
			fmt.Fprintf(out, "%d trials, reference on A in %d, seed %d\n", len(set), set.RefOnA(), seed)
			if outPath != "" {
				fmt.Fprintf(out, "Wrote trial set to %s\n", outPath)
			}
			return nil
		},
	}

	addDesignFlags(cmd, &design)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the trial set as CSV for run --trials")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func renderTrialSet(set abx.TrialSet) string {
	rows := make([][]string, 0, len(set))
	for i, t := range set {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			t.ID,
			t.Group,
			filepath.Base(t.A),
			filepath.Base(t.B),
			filepath.Base(t.Ref),
			string(t.RefSide()),
		})
	}
	headers := []string{"Trial", "ID", "Group", "A", "B", "Reference", "X"}
	return renderTable(headers, rows, []columnAlignment{alignRight})
}
