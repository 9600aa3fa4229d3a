package processing

import (
	"fmt"
	"math"

	"abxkit/internal/audio"
)

// Normalization names the level reference used after convolution.
type Normalization string

const (
	NormalizeNone  Normalization = "none"
	NormalizePeak  Normalization = "peak"
	NormalizeRMS   Normalization = "rms"
	NormalizeLUFS  Normalization = "lufs"
	NormalizeIRSum Normalization = "ir_sum"
)

// PeakNormalize scales buf so the peak of ref reaches db dBFS. A zero-value
// ref means buf is its own reference.
func PeakNormalize(buf, ref audio.Buffer, db float64) (audio.Buffer, error) {
	if ref.Channels == nil {
		ref = buf
	}
	peak := ref.Peak()
	if peak == 0 {
		return audio.Buffer{}, fmt.Errorf("peak normalize: %w", ErrSilentReference)
	}
	return buf.Scaled(audio.Amplitude(db) / peak), nil
}

// RMSNormalize scales buf so the RMS of ref reaches db dBFS.
func RMSNormalize(buf, ref audio.Buffer, db float64) (audio.Buffer, error) {
	if ref.Channels == nil {
		ref = buf
	}
	rms := ref.RMS()
	if rms == 0 {
		return audio.Buffer{}, fmt.Errorf("rms normalize: %w", ErrSilentReference)
	}
	return buf.Scaled(audio.Amplitude(db) / rms), nil
}

// LoudnessNormalize scales buf so the integrated loudness of ref reaches
// lufs.
func LoudnessNormalize(buf, ref audio.Buffer, lufs float64) (audio.Buffer, error) {
	if ref.Channels == nil {
		ref = buf
	}
	loudness, err := audio.IntegratedLoudness(ref)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("loudness normalize: %w", err)
	}
	if math.IsInf(loudness, -1) {
		return audio.Buffer{}, fmt.Errorf("loudness normalize: %w", ErrSilentReference)
	}
	return buf.Scaled(audio.Amplitude(lufs - loudness)), nil
}

// IRSumNormalize scales buf by 10^(db/20) divided by the absolute sum of ir.
func IRSumNormalize(buf, ir audio.Buffer, db float64) (audio.Buffer, error) {
	sum := ir.AbsSum()
	if sum == 0 {
		return audio.Buffer{}, fmt.Errorf("ir sum normalize: %w", ErrSilentReference)
	}
	return buf.Scaled(audio.Amplitude(db) / sum), nil
}

// Peak returns a Func normalizing each stimulus to its own peak.
func Peak(db float64) Func {
	return func(buf audio.Buffer) (audio.Buffer, error) {
		return PeakNormalize(buf, audio.Buffer{}, db)
	}
}

// RMS returns a Func normalizing each stimulus to its own RMS.
func RMS(db float64) Func {
	return func(buf audio.Buffer) (audio.Buffer, error) {
		return RMSNormalize(buf, audio.Buffer{}, db)
	}
}

// Loudness returns a Func normalizing each stimulus to its own loudness.
func Loudness(lufs float64) Func {
	return func(buf audio.Buffer) (audio.Buffer, error) {
		return LoudnessNormalize(buf, audio.Buffer{}, lufs)
	}
}
