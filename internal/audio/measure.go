package audio

import (
	"errors"
	"math"
)

// Stats summarizes the level of a buffer.
type Stats struct {
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Seconds    float64 `json:"seconds"`
	PeakDBFS   float64 `json:"peak_dbfs"`
	RMSDBFS    float64 `json:"rms_dbfs"`
	LUFS       float64 `json:"lufs"`
	Clipped    bool    `json:"clipped"`
}

// Measure computes peak, RMS and integrated loudness. Loudness is -Inf when
// the buffer is shorter than one gating block.
func Measure(buf Buffer) (Stats, error) {
	if err := buf.Validate(); err != nil {
		return Stats{}, err
	}
	lufs, err := IntegratedLoudness(buf)
	if errors.Is(err, ErrTooShort) {
		lufs, err = math.Inf(-1), nil
	}
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		SampleRate: buf.SampleRate,
		Channels:   buf.NumChannels(),
		Seconds:    buf.Duration().Seconds(),
		PeakDBFS:   DB(buf.Peak()),
		RMSDBFS:    DB(buf.RMS()),
		LUFS:       lufs,
		Clipped:    buf.Clipped(),
	}, nil
}
