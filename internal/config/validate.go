package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDesign(); err != nil {
		return err
	}
	if err := c.validateRandomization(); err != nil {
		return err
	}
	if err := c.validateProcessing(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDesign() error {
	switch c.Design.GroupBy {
	case GroupByDirectory, GroupByItem:
		return nil
	}
	return fmt.Errorf("design.group_by must be %q or %q, got %q", GroupByDirectory, GroupByItem, c.Design.GroupBy)
}

func (c *Config) validateRandomization() error {
	switch c.Randomization.Balance {
	case BalanceIndependent, BalanceExact:
		return nil
	}
	return fmt.Errorf("randomization.balance must be %q or %q, got %q", BalanceIndependent, BalanceExact, c.Randomization.Balance)
}

func (c *Config) validateProcessing() error {
	p := c.Processing
	switch p.Mode {
	case ModeStraight, ModeGain, ModePeak, ModeRMS, ModeLUFS:
	case ModeConvolution:
		if strings.TrimSpace(p.IRPath) == "" {
			return errors.New("processing.ir_path must be set when processing.mode is convolution")
		}
	default:
		return fmt.Errorf("processing.mode: unsupported value %q", p.Mode)
	}
	switch p.Normalization {
	case "none", "peak", "rms", "lufs", "ir_sum":
	default:
		return fmt.Errorf("processing.normalization: unsupported value %q", p.Normalization)
	}
	switch p.Prefilter {
	case "", "hp", "lp":
	default:
		return fmt.Errorf("processing.prefilter must be empty, \"hp\" or \"lp\", got %q", p.Prefilter)
	}
	if p.Mode == ModePeak && p.TargetDB > 0 {
		return errors.New("processing.target_db must be <= 0 dBFS for peak normalization")
	}
	return nil
}

func (c *Config) validateAudio() error {
	switch c.Audio.BitsPerSample {
	case 16, 24, 32:
		return nil
	}
	return fmt.Errorf("audio.bits_per_sample must be 16, 24 or 32, got %d", c.Audio.BitsPerSample)
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
}
