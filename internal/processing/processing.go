package processing

import (
	"errors"
	"fmt"
	"log/slog"

	"abxkit/internal/audio"
	"abxkit/internal/logging"
)

// ErrSilentReference reports a normalization reference with zero level.
var ErrSilentReference = errors.New("normalization reference is silent")

// Func transforms a decoded stimulus.
type Func func(audio.Buffer) (audio.Buffer, error)

// Straight returns the input unchanged.
func Straight(buf audio.Buffer) (audio.Buffer, error) {
	return buf, nil
}

// Gain multiplies the signal by 10^(db/20).
func Gain(db float64) Func {
	factor := audio.Amplitude(db)
	return func(buf audio.Buffer) (audio.Buffer, error) {
		return buf.Scaled(factor), nil
	}
}

// Chain applies funcs left to right.
func Chain(funcs ...Func) Func {
	return func(buf audio.Buffer) (audio.Buffer, error) {
		out := buf
		for i, fn := range funcs {
			if fn == nil {
				continue
			}
			next, err := fn(out)
			if err != nil {
				return audio.Buffer{}, fmt.Errorf("processing step %d: %w", i+1, err)
			}
			out = next
		}
		return out, nil
	}
}

// WithStats wraps fn so every result is measured and logged at debug level,
// with a warning when the output exceeds full scale.
func WithStats(logger *slog.Logger, fn Func) Func {
	logger = logging.NewComponentLogger(logger, "processing")
	return func(buf audio.Buffer) (audio.Buffer, error) {
		out, err := fn(buf)
		if err != nil {
			return out, err
		}
		LogStats(logger, out)
		return out, nil
	}
}

// LogStats reports peak, RMS and loudness of buf.
func LogStats(logger *slog.Logger, buf audio.Buffer) {
	if logger == nil {
		return
	}
	stats, err := audio.Measure(buf)
	if err != nil {
		logger.Warn("measure processed audio", logging.Error(err))
		return
	}
	logger.Debug("processed audio stats",
		slog.Float64("peak_dbfs", stats.PeakDBFS),
		slog.Float64("rms_dbfs", stats.RMSDBFS),
		slog.Float64("lufs", stats.LUFS),
	)
	if stats.Clipped {
		logger.Warn("clipping on full scale after processing", slog.Float64("peak_dbfs", stats.PeakDBFS))
	}
}
