package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"abxkit/internal/abx"
	"abxkit/internal/config"
	"abxkit/internal/stimuli"
)

// designFlags are the trial-generation flags shared by prepare and run.
// Unset flags fall back to the configuration.
type designFlags struct {
	sounds            string
	constantReference bool
	groupBy           string
	anchor            bool
	seed              int64
	balance           string
}

func addDesignFlags(cmd *cobra.Command, f *designFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.sounds, "sounds", "", "Stimuli directory (default paths.stimuli_dir)")
	flags.BoolVar(&f.constantReference, "constant-reference", false, "Hold the first stimulus of each pair as the reference (CR-ABX)")
	flags.StringVar(&f.groupBy, "group-by", "", "Pair stimuli by directory or item")
	flags.BoolVar(&f.anchor, "anchor", false, "Only pair stimuli with the first stimulus of each group")
	flags.Int64Var(&f.seed, "seed", 0, "Randomization seed (0 draws one from the clock)")
	flags.StringVar(&f.balance, "balance", "", "Reference side assignment: independent or exact")
}

type resolvedDesign struct {
	dir     string
	options abx.Options
	seed    int64
	balance abx.Balance
}

func (f *designFlags) resolve(cmd *cobra.Command, cfg *config.Config) (resolvedDesign, error) {
	flags := cmd.Flags()
	d := resolvedDesign{
		dir: cfg.Paths.StimuliDir,
		options: abx.Options{
			ConstantReference: cfg.Design.ConstantReference,
			GroupBy:           cfg.Design.GroupBy,
			Anchor:            cfg.Design.Anchor,
		},
		seed:    cfg.Randomization.Seed,
		balance: abx.Balance(cfg.Randomization.Balance),
	}
	if flags.Changed("sounds") {
		dir, err := config.ExpandPath(strings.TrimSpace(f.sounds))
		if err != nil {
			return resolvedDesign{}, fmt.Errorf("resolve stimuli directory: %w", err)
		}
		d.dir = dir
	}
	if flags.Changed("constant-reference") {
		d.options.ConstantReference = f.constantReference
	}
	if flags.Changed("group-by") {
		d.options.GroupBy = strings.ToLower(strings.TrimSpace(f.groupBy))
	}
	if flags.Changed("anchor") {
		d.options.Anchor = f.anchor
	}
	if flags.Changed("seed") {
		d.seed = f.seed
	}
	if flags.Changed("balance") {
		d.balance = abx.Balance(strings.ToLower(strings.TrimSpace(f.balance)))
	}
	switch d.balance {
	case "":
		d.balance = abx.BalanceIndependent
	case abx.BalanceIndependent, abx.BalanceExact:
	default:
		return resolvedDesign{}, fmt.Errorf("balance: unsupported value %q", d.balance)
	}
	return d, nil
}

// buildTrialSet discovers stimuli, generates every trial and randomizes the
// presentation. The seed actually used is returned so the order can be replayed.
func buildTrialSet(d resolvedDesign, logger *slog.Logger) (abx.TrialSet, int64, error) {
	list, err := stimuli.Discover(d.dir)
	if err != nil {
		return nil, 0, err
	}
	set, err := abx.Generate(list, d.options)
	if err != nil {
		return nil, 0, fmt.Errorf("generate trials from %s: %w", d.dir, err)
	}
	rng, seed := abx.NewRand(d.seed)
	randomized := abx.Randomize(set, rng, d.balance)
	logger.Info("trial set prepared",
		slog.String("stimuli_dir", d.dir),
		slog.Int("stimuli", len(list)),
		slog.Int("trials", len(randomized)),
		slog.Int64("seed", seed),
		slog.String("balance", string(d.balance)),
	)
	return randomized, seed, nil
}
