package processing

import (
	"fmt"
	"log/slog"

	"abxkit/internal/audio"
	"abxkit/internal/config"
)

// FromConfig builds the playback transform selected by the processing
// section. The result logs level statistics for every rendered stimulus.
func FromConfig(cfg config.Processing, logger *slog.Logger) (Func, error) {
	var fn Func
	switch cfg.Mode {
	case "", config.ModeStraight:
		fn = Straight
	case config.ModeGain:
		fn = Gain(cfg.GainDB)
	case config.ModePeak:
		fn = Peak(cfg.TargetDB)
	case config.ModeRMS:
		fn = RMS(cfg.TargetDB)
	case config.ModeLUFS:
		fn = Loudness(cfg.TargetDB)
	case config.ModeConvolution:
		ir, err := audio.ReadWAV(cfg.IRPath)
		if err != nil {
			return nil, fmt.Errorf("load impulse response: %w", err)
		}
		fn = Convolve(ir, ConvolutionOptions{
			Normalization: Normalization(cfg.Normalization),
			TargetDB:      cfg.TargetDB,
			Prefilter:     cfg.Prefilter,
			PrefilterHz:   cfg.PrefilterHz,
			FadeOut:       cfg.FadeOut,
		})
	default:
		return nil, fmt.Errorf("processing.mode: unsupported value %q", cfg.Mode)
	}
	return WithStats(logger, fn), nil
}
