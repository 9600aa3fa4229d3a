package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDesign()
	c.normalizeRandomization()
	if err := c.normalizeProcessing(); err != nil {
		return err
	}
	c.normalizePlayer()
	c.normalizeParticipant()
	if c.Audio.BitsPerSample == 0 {
		c.Audio.BitsPerSample = defaultBitsPerSample
	}
	c.normalizeLogging()
	return nil
}

// applyEnv lets ABX_* variables (from the shell or a .env file) override file values.
func (c *Config) applyEnv() {
	if value, ok := lookupEnv("ABX_STIMULI_DIR"); ok {
		c.Paths.StimuliDir = value
	}
	if value, ok := lookupEnv("ABX_RESULTS_DIR"); ok {
		c.Paths.ResultsDir = value
	}
	if value, ok := lookupEnv("ABX_PLAYER"); ok {
		c.Player.Command = value
	}
	if value, ok := lookupEnv("ABX_LOG_LEVEL"); ok {
		c.Logging.Level = value
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StimuliDir) == "" {
		c.Paths.StimuliDir = defaultStimuliDir
	}
	if c.Paths.StimuliDir, err = expandPath(strings.TrimSpace(c.Paths.StimuliDir)); err != nil {
		return fmt.Errorf("paths.stimuli_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ResultsDir) == "" {
		c.Paths.ResultsDir = defaultResultsDir
	}
	if c.Paths.ResultsDir, err = expandPath(strings.TrimSpace(c.Paths.ResultsDir)); err != nil {
		return fmt.Errorf("paths.results_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDesign() {
	c.Design.GroupBy = strings.ToLower(strings.TrimSpace(c.Design.GroupBy))
	if c.Design.GroupBy == "" {
		c.Design.GroupBy = defaultGroupBy
	}
}

func (c *Config) normalizeRandomization() {
	c.Randomization.Balance = strings.ToLower(strings.TrimSpace(c.Randomization.Balance))
	if c.Randomization.Balance == "" {
		c.Randomization.Balance = defaultBalance
	}
}

func (c *Config) normalizeProcessing() error {
	c.Processing.Mode = strings.ToLower(strings.TrimSpace(c.Processing.Mode))
	if c.Processing.Mode == "" {
		c.Processing.Mode = defaultMode
	}
	c.Processing.Normalization = strings.ToLower(strings.TrimSpace(c.Processing.Normalization))
	if c.Processing.Normalization == "" {
		c.Processing.Normalization = defaultNormalization
	}
	c.Processing.Prefilter = strings.ToLower(strings.TrimSpace(c.Processing.Prefilter))
	if c.Processing.PrefilterHz <= 0 {
		c.Processing.PrefilterHz = defaultPrefilterHz
	}
	var err error
	if c.Processing.IRPath, err = expandPath(strings.TrimSpace(c.Processing.IRPath)); err != nil {
		return fmt.Errorf("processing.ir_path: %w", err)
	}
	return nil
}

func (c *Config) normalizePlayer() {
	c.Player.Command = strings.TrimSpace(c.Player.Command)
	if c.Player.Command == "" {
		c.Player.Command = defaultPlayerCommand
	}
	args := make([]string, 0, len(c.Player.Args))
	for _, arg := range c.Player.Args {
		if arg = strings.TrimSpace(arg); arg != "" {
			args = append(args, arg)
		}
	}
	c.Player.Args = args
}

func (c *Config) normalizeParticipant() {
	c.Participant.FirstName = strings.TrimSpace(c.Participant.FirstName)
	c.Participant.SecondName = strings.TrimSpace(c.Participant.SecondName)
	c.Participant.DateOfBirth = strings.TrimSpace(c.Participant.DateOfBirth)
	c.Participant.Gender = strings.TrimSpace(c.Participant.Gender)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
