package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"abxkit/internal/audio"
)

type fileStats struct {
	Path       string   `json:"path"`
	SampleRate int      `json:"sample_rate"`
	Channels   int      `json:"channels"`
	Seconds    float64  `json:"seconds"`
	PeakDBFS   *float64 `json:"peak_dbfs"`
	RMSDBFS    *float64 `json:"rms_dbfs"`
	LUFS       *float64 `json:"lufs"`
	Clipped    bool     `json:"clipped"`
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "stats FILE...",
		Short:       "Measure peak, RMS and loudness of WAV files",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			measured := make([]fileStats, 0, len(args))
			rows := make([][]string, 0, len(args))
			for _, path := range args {
				buf, err := audio.ReadWAV(path)
				if err != nil {
					return err
				}
				s, err := audio.Measure(buf)
				if err != nil {
					return fmt.Errorf("measure %s: %w", path, err)
				}
				measured = append(measured, fileStats{
					Path:       path,
					SampleRate: s.SampleRate,
					Channels:   s.Channels,
					Seconds:    s.Seconds,
					PeakDBFS:   finite(s.PeakDBFS),
					RMSDBFS:    finite(s.RMSDBFS),
					LUFS:       finite(s.LUFS),
					Clipped:    s.Clipped,
				})
				rows = append(rows, []string{
					filepath.Base(path),
					strconv.Itoa(s.SampleRate),
					strconv.Itoa(s.Channels),
					fmt.Sprintf("%.2f", s.Seconds),
					formatDB(s.PeakDBFS),
					formatDB(s.RMSDBFS),
					formatDB(s.LUFS),
					yesNo(s.Clipped),
				})
			}
			if asJSON {
				return writeJSON(cmd, measured)
			}
			headers := []string{"File", "Rate", "Channels", "Seconds", "Peak dBFS", "RMS dBFS", "LUFS", "Clipped"}
			aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}
