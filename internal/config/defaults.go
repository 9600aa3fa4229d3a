package config

const (
	defaultStimuliDir    = "stimuli"
	defaultResultsDir    = "."
	defaultGroupBy       = GroupByDirectory
	defaultBalance       = BalanceIndependent
	defaultMode          = ModeStraight
	defaultNormalization = "ir_sum"
	defaultTargetDB      = -6
	defaultPrefilterHz   = 200
	defaultPlayerCommand = "aplay"
	defaultBitsPerSample = 16
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Recognised values for Design.GroupBy.
const (
	GroupByDirectory = "directory"
	GroupByItem      = "item"
)

// Recognised values for Randomization.Balance.
const (
	BalanceIndependent = "independent"
	BalanceExact       = "exact"
)

// Recognised values for Processing.Mode.
const (
	ModeStraight    = "straight"
	ModeGain        = "gain"
	ModePeak        = "peak"
	ModeRMS         = "rms"
	ModeLUFS        = "lufs"
	ModeConvolution = "convolution"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StimuliDir: defaultStimuliDir,
			ResultsDir: defaultResultsDir,
		},
		Design: Design{
			GroupBy: defaultGroupBy,
		},
		Randomization: Randomization{
			Balance: defaultBalance,
		},
		Processing: Processing{
			Mode:          defaultMode,
			TargetDB:      defaultTargetDB,
			Normalization: defaultNormalization,
			PrefilterHz:   defaultPrefilterHz,
			FadeOut:       true,
		},
		Player: Player{
			Command: defaultPlayerCommand,
			Args:    []string{"-q"},
		},
		Audio: Audio{
			BitsPerSample: defaultBitsPerSample,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
