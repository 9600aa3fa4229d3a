package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"abxkit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StimuliDir = filepath.Join(base, "stimuli")
	cfgVal.Paths.ResultsDir = filepath.Join(base, "results")
	cfgVal.Paths.LogDir = ""
	cfgVal.Player.Command = "true"
	cfgVal.Player.Args = nil
	cfgVal.Randomization.Seed = 1

	if err := os.MkdirAll(cfgVal.Paths.StimuliDir, 0o755); err != nil {
		t.Fatalf("mkdir stimuli dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStimuli writes one short sine WAV per name into the stimuli directory.
// Each file gets a distinct frequency so processed output differs.
func WithStimuli(names ...string) ConfigOption {
	return func(b *configBuilder) {
		for i, name := range names {
			path := filepath.Join(b.cfg.Paths.StimuliDir, name+".wav")
			WriteWAV(b.t, path, Sine(8000, 220*float64(i+1), 0.5, 0.5, 1))
		}
	}
}

// WithStubbedPlayer writes a player script that appends its last argument to
// a log file and points the config at it. The log path is returned through
// logPath when non-nil.
func WithStubbedPlayer(logPath *string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		played := filepath.Join(b.baseDir, "played.log")
		script := fmt.Sprintf("#!/bin/sh\nfor last; do :; done\necho \"$last\" >> %q\n", played)
		target := filepath.Join(binDir, "player")
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write stub player: %v", err)
		}
		b.cfg.Player.Command = target
		b.cfg.Player.Args = nil
		if logPath != nil {
			*logPath = played
		}
	}
}

// WithConstantReference toggles CR-ABX generation.
func WithConstantReference(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Design.ConstantReference = enabled
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StimuliDir)
}
