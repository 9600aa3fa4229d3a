package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"abxkit/internal/config"
	"abxkit/internal/results"
)

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summarize RESULTS.csv",
		Short: "Score a saved results table against chance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve results path: %w", err)
			}
			answers, err := results.ReadResults(path)
			if err != nil {
				return err
			}
			summary, err := results.Summarize(answers)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, summary)
			}

			out := cmd.OutOrStdout()
			overall := [][]string{
				{"Trials", strconv.Itoa(summary.Trials)},
				{"Correct", strconv.Itoa(summary.Correct)},
				{"Proportion", fmt.Sprintf("%.3f", summary.Proportion)},
				{"p-value", fmt.Sprintf("%.4f", summary.PValue)},
				{"Reference on A", strconv.Itoa(summary.RefOnA)},
				{"Mean time (s)", fmt.Sprintf("%.2f", summary.MeanTime)},
				{"Median time (s)", fmt.Sprintf("%.2f", summary.MedianTime)},
				{"Time std dev (s)", fmt.Sprintf("%.2f", summary.StdDevTime)},
				{"Mean clicks", fmt.Sprintf("%.1f", summary.MeanClicks)},
			}
			fmt.Fprintln(out, renderTable([]string{"Measure", "Value"}, overall, []columnAlignment{alignLeft, alignRight}))

			if len(summary.Pairs) > 0 {
				rows := make([][]string, 0, len(summary.Pairs))
				for _, p := range summary.Pairs {
					rows = append(rows, []string{
						p.ID,
						p.Group,
						p.Stimuli,
						strconv.Itoa(p.Trials),
						strconv.Itoa(p.Correct),
						fmt.Sprintf("%.3f", p.Proportion),
						fmt.Sprintf("%.4f", p.PValue),
					})
				}
				headers := []string{"ID", "Group", "Stimuli", "Trials", "Correct", "Proportion", "p-value"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight}
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of tables")
	return cmd
}
