// Package config loads, normalizes, and validates abx configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a working-directory .env file, and
// honours ABX_* environment overrides. The Config type centralizes every knob
// the CLI and the listening session need: where stimuli live, how trials are
// combined and randomized, which processing is applied before playback, and
// where results are written.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical enum values, and clear validation errors.
package config
