package processing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"abxkit/internal/audio"
	"abxkit/internal/logging"
	"abxkit/internal/stimuli"
)

// Batch convolution defaults.
const (
	DefaultBatchPrefix = "13ab00ad"
	DefaultBatchPeakDB = -12
)

// ErrNoImpulseResponses reports an IR directory without WAV files.
var ErrNoImpulseResponses = errors.New("no impulse responses found")

// BatchOptions configures BatchConvolve.
type BatchOptions struct {
	IRDir         string
	StimulusPath  string
	OutDir        string
	PeakDB        float64
	Prefix        string
	BitsPerSample int
	FadeOut       bool
	Logger        *slog.Logger
}

// BatchResult describes one rendered file.
type BatchResult struct {
	IR      string      `json:"ir"`
	Variant string      `json:"variant"`
	Output  string      `json:"output"`
	Stats   audio.Stats `json:"stats"`
}

// Variant returns the IR label used in batch output names: the part of the
// base name after its last underscore.
func Variant(irPath string) string {
	name := strings.TrimSuffix(filepath.Base(irPath), filepath.Ext(irPath))
	if idx := strings.LastIndex(name, "_"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// BatchConvolve convolves one stimulus with every IR in IRDir. A single gain
// is derived by peak-normalizing the first (sorted) IR's result to PeakDB and
// applied to all results, so their relative levels are preserved. Files are
// written as {prefix}_{variant}_{stimulus}.wav in OutDir.
func BatchConvolve(ctx context.Context, opts BatchOptions) ([]BatchResult, error) {
	logger := logging.NewComponentLogger(opts.Logger, "batch")
	prefix := strings.TrimSpace(opts.Prefix)
	if prefix == "" {
		prefix = DefaultBatchPrefix
	}
	bits := opts.BitsPerSample
	if bits == 0 {
		bits = 16
	}

	irs, err := stimuli.Discover(opts.IRDir)
	if err != nil {
		return nil, err
	}
	if len(irs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImpulseResponses, opts.IRDir)
	}

	stimulus, err := audio.ReadWAV(opts.StimulusPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", stimuli.ErrFileIO, err)
	}
	stimName := strings.TrimSuffix(filepath.Base(opts.StimulusPath), filepath.Ext(opts.StimulusPath))

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create output directory: %w", stimuli.ErrFileIO, err)
	}

	convOpts := ConvolutionOptions{Normalization: NormalizeNone, FadeOut: opts.FadeOut}
	var factor float64
	results := make([]BatchResult, 0, len(irs))
	for i, ir := range irs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		kernel, err := audio.ReadWAV(ir.Path)
		if err != nil {
			return results, fmt.Errorf("%w: %w", stimuli.ErrFileIO, err)
		}
		rendered, err := Convolve(kernel, convOpts)(stimulus)
		if err != nil {
			return results, fmt.Errorf("convolve %s: %w", ir.Path, err)
		}
		if i == 0 {
			peak := rendered.Peak()
			if peak == 0 {
				return nil, fmt.Errorf("calibrate with %s: %w", ir.Path, ErrSilentReference)
			}
			factor = audio.Amplitude(opts.PeakDB) / peak
			logger.Info("batch gain calibrated",
				slog.String("ir", ir.Path),
				slog.Float64("gain_db", audio.DB(factor)),
			)
		}
		rendered = rendered.Scaled(factor)

		variant := Variant(ir.Path)
		target := filepath.Join(opts.OutDir, fmt.Sprintf("%s_%s_%s.wav", prefix, variant, stimName))
		if err := audio.WriteWAV(target, rendered, bits); err != nil {
			return results, fmt.Errorf("%w: %w", stimuli.ErrFileIO, err)
		}
		stats, err := audio.Measure(rendered)
		if err != nil {
			return results, err
		}
		if stats.Clipped {
			logger.Warn("clipping on full scale after processing", slog.String("output", target))
		}
		logger.Debug("batch output written", slog.String("output", target), slog.Float64("peak_dbfs", stats.PeakDBFS))
		results = append(results, BatchResult{IR: ir.Path, Variant: variant, Output: target, Stats: stats})
	}
	return results, nil
}
