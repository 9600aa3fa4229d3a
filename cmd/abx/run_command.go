package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"abxkit/internal/abx"
	"abxkit/internal/config"
	"abxkit/internal/deps"
	"abxkit/internal/logging"
	"abxkit/internal/playback"
	"abxkit/internal/processing"
	"abxkit/internal/results"
	"abxkit/internal/session"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var design designFlags
	var trialsPath string
	var resultsDir string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an interactive ABX listening session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "run")

			set, err := loadTrialSet(cmd, cfg, &design, trialsPath, logger)
			if err != nil {
				return err
			}

			outDir := cfg.Paths.ResultsDir
			if dir := strings.TrimSpace(resultsDir); dir != "" {
				if outDir, err = config.ExpandPath(dir); err != nil {
					return fmt.Errorf("resolve results directory: %w", err)
				}
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return fmt.Errorf("%w: create results directory %s: %w", abx.ErrFileIO, outDir, err)
				}
			}

			player, err := newSessionPlayer(cfg, dryRun, logger)
			if err != nil {
				return err
			}

			lock, err := session.AcquireLock(outDir)
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Release(); err != nil {
					logger.Warn("release session lock", logging.Error(err))
				}
			}()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !isTerminal(cmd.InOrStdin()) {
				logger.Debug("stdin is not a terminal; reading answers from input stream")
			}
			out := cmd.OutOrStdout()
			runner := session.NewRunner(session.Options{
				In:     cmd.InOrStdin(),
				Out:    out,
				Player: player,
				Logger: logger,
				Color:  shouldColorize(out),
			})
			defer runner.Close()

			participant, err := runner.Intake(runCtx, participantDefaults(cfg.Participant))
			if err != nil {
				return err
			}
			runCtx = logging.WithSessionID(runCtx, participant.SessionID)

			started := time.Now()
			answers, err := runner.Run(runCtx, set)
			if err != nil {
				return err
			}

			files, err := results.Save(outDir, started, participant, answers, cfg.Results.XLSX)
			if err != nil {
				return err
			}
			logging.WithContext(runCtx, logger).Info("results saved",
				slog.String("results", files.Results),
				slog.String("info", files.Info),
			)

			summary, err := results.Summarize(answers)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nCorrect: %d/%d (p = %.4f)\n", summary.Correct, summary.Trials, summary.PValue)
			fmt.Fprintf(out, "Results: %s\n", files.Results)
			fmt.Fprintf(out, "Info:    %s\n", files.Info)
			if files.XLSX != "" {
				fmt.Fprintf(out, "Workbook: %s\n", files.XLSX)
			}
			return nil
		},
	}

	addDesignFlags(cmd, &design)
	cmd.Flags().StringVar(&trialsPath, "trials", "", "Run a trial set written by prepare --out instead of generating one")
	cmd.Flags().StringVar(&resultsDir, "results", "", "Results directory (default paths.results_dir)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Walk through the session without playing audio")
	return cmd
}

func loadTrialSet(cmd *cobra.Command, cfg *config.Config, design *designFlags, trialsPath string, logger *slog.Logger) (abx.TrialSet, error) {
	if path := strings.TrimSpace(trialsPath); path != "" {
		if cmd.Flags().Changed("sounds") {
			return nil, fmt.Errorf("%w: --trials and --sounds are mutually exclusive", abx.ErrInput)
		}
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return nil, fmt.Errorf("resolve trials path: %w", err)
		}
		set, err := results.ReadTrials(expanded)
		if err != nil {
			return nil, err
		}
		logger.Info("trial set loaded", slog.String("path", expanded), slog.Int("trials", len(set)))
		return set, nil
	}
	d, err := design.resolve(cmd, cfg)
	if err != nil {
		return nil, err
	}
	set, _, err := buildTrialSet(d, logger)
	return set, err
}

func newSessionPlayer(cfg *config.Config, dryRun bool, logger *slog.Logger) (playback.Player, error) {
	if dryRun {
		logger.Info("dry run; audio playback disabled")
		return playback.NopPlayer{}, nil
	}
	if err := deps.Require(deps.Player(cfg.PlayerCommand())); err != nil {
		return nil, err
	}
	opts := []playback.Option{
		playback.WithBitsPerSample(cfg.Audio.BitsPerSample),
		playback.WithLogger(logger),
	}
	if cfg.Processing.Mode != config.ModeStraight {
		fn, err := processing.FromConfig(cfg.Processing, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, playback.WithProcessing(fn))
	}
	return playback.NewCommandPlayer(cfg.PlayerCommand(), cfg.Player.Args, opts...)
}

func participantDefaults(p config.Participant) abx.Participant {
	return abx.Participant{
		FirstName:       p.FirstName,
		SecondName:      p.SecondName,
		DateOfBirth:     p.DateOfBirth,
		Gender:          p.Gender,
		HearingImpaired: p.HearingImpaired,
	}
}
