package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains input and output directory configuration.
type Paths struct {
	StimuliDir string `toml:"stimuli_dir"`
	ResultsDir string `toml:"results_dir"`
	LogDir     string `toml:"log_dir"`
}

// Design controls how ABX trials are combined from the stimuli directory.
type Design struct {
	// ConstantReference keeps the first stimulus of each pair as the reference
	// (CR-ABX). When false, every pair is presented once per reference.
	ConstantReference bool `toml:"constant_reference"`
	// GroupBy selects the comparison grouping: "directory" treats every file as
	// comparable, "item" pairs only files sharing the trailing name token.
	GroupBy string `toml:"group_by"`
	// Anchor restricts pairs to those containing the first stimulus of a group.
	Anchor bool `toml:"anchor"`
}

// Randomization controls trial order shuffling and hidden reference placement.
type Randomization struct {
	Seed    int64  `toml:"seed"`    // 0 draws a time-based seed
	Balance string `toml:"balance"` // independent | exact
}

// Processing selects the transform applied to stimuli before playback.
type Processing struct {
	Mode          string  `toml:"mode"`
	TargetDB      float64 `toml:"target_db"`
	GainDB        float64 `toml:"gain_db"`
	IRPath        string  `toml:"ir_path"`
	Normalization string  `toml:"normalization"`
	Prefilter     string  `toml:"prefilter"`
	PrefilterHz   float64 `toml:"prefilter_hz"`
	FadeOut       bool    `toml:"fade_out"`
}

// Player configures the external playback command.
type Player struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// Participant pre-fills the intake prompts.
type Participant struct {
	FirstName       string `toml:"first_name"`
	SecondName      string `toml:"second_name"`
	DateOfBirth     string `toml:"date_of_birth"`
	Gender          string `toml:"gender"`
	HearingImpaired bool   `toml:"hearing_impaired"`
}

// Results controls session output files.
type Results struct {
	XLSX bool `toml:"xlsx"`
}

// Audio contains WAV encoding settings for rendered stimuli.
type Audio struct {
	BitsPerSample int `toml:"bits_per_sample"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for abx.
//
// Configuration sections by subsystem:
//   - Paths: stimuli input, results output, optional log directory
//   - Design: combination generation mode
//   - Randomization: seed and hidden reference balance
//   - Processing: playback transform and its parameters
//   - Player: external playback binary
//   - Participant: intake defaults
//   - Results: optional XLSX export
//   - Audio: rendered WAV bit depth
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Design        Design        `toml:"design"`
	Randomization Randomization `toml:"randomization"`
	Processing    Processing    `toml:"processing"`
	Player        Player        `toml:"player"`
	Participant   Participant   `toml:"participant"`
	Results       Results       `toml:"results"`
	Audio         Audio         `toml:"audio"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/abx/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if err := loadDotEnv(".env"); err != nil {
		return nil, "", false, err
	}

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadDotEnv populates the process environment from a dotenv file. Variables
// already set in the environment win over the file.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/abx/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("abx.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output directories a session writes into.
// The stimuli directory is never created; a missing one is an input error.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.ResultsDir}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PlayerCommand returns the playback executable name.
func (c *Config) PlayerCommand() string {
	if cmd := strings.TrimSpace(c.Player.Command); cmd != "" {
		return cmd
	}
	return defaultPlayerCommand
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
