package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"abxkit/internal/config"
	"abxkit/internal/logging"
	"abxkit/internal/processing"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var irDir string
	var stimulusPath string
	var outDir string
	var peakDB float64
	var prefix string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Convolve one stimulus with every impulse response in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			paths := map[string]*string{"--irs": &irDir, "--stimulus": &stimulusPath, "--out": &outDir}
			for _, name := range []string{"--irs", "--stimulus", "--out"} {
				value := strings.TrimSpace(*paths[name])
				if value == "" {
					return fmt.Errorf("%s is required", name)
				}
				expanded, err := config.ExpandPath(value)
				if err != nil {
					return fmt.Errorf("resolve %s: %w", name, err)
				}
				*paths[name] = expanded
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			rendered, err := processing.BatchConvolve(runCtx, processing.BatchOptions{
				IRDir:         irDir,
				StimulusPath:  stimulusPath,
				OutDir:        outDir,
				PeakDB:        peakDB,
				Prefix:        prefix,
				BitsPerSample: cfg.Audio.BitsPerSample,
				FadeOut:       cfg.Processing.FadeOut,
				Logger:        logging.NewComponentLogger(logger, "process"),
			})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(rendered))
			for _, r := range rendered {
				rows = append(rows, []string{
					r.Variant,
					filepath.Base(r.Output),
					formatDB(r.Stats.PeakDBFS),
					formatDB(r.Stats.RMSDBFS),
					formatDB(r.Stats.LUFS),
					yesNo(r.Stats.Clipped),
				})
			}
			headers := []string{"Variant", "Output", "Peak dBFS", "RMS dBFS", "LUFS", "Clipped"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			fmt.Fprintf(out, "Wrote %d files to %s\n", len(rendered), outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&irDir, "irs", "", "Directory of impulse response WAV files")
	cmd.Flags().StringVar(&stimulusPath, "stimulus", "", "Stimulus WAV file to convolve")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory")
	cmd.Flags().Float64Var(&peakDB, "peak", processing.DefaultBatchPeakDB, "Peak level in dBFS of the first rendered file")
	cmd.Flags().StringVar(&prefix, "prefix", processing.DefaultBatchPrefix, "Output file name prefix")
	return cmd
}
