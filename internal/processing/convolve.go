package processing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"abxkit/internal/audio"
)

// Prefilter values for ConvolutionOptions.Prefilter.
const (
	PrefilterNone     = ""
	PrefilterHighPass = "hp"
	PrefilterLowPass  = "lp"
)

const prefilterOrder = 12

// hft90d holds the flat-top window coefficients used for the IR fade-out.
var hft90d = []float64{1, 1.942604, 1.340318, 0.440811, 0.043097}

// ConvolutionOptions configures Convolve.
type ConvolutionOptions struct {
	// Normalization selects the level reference applied to the result.
	// Empty means NormalizeNone.
	Normalization Normalization
	// TargetDB is the normalization target in dBFS (or LUFS).
	TargetDB float64
	// Prefilter optionally band-limits the normalization reference with a
	// Butterworth high-pass ("hp") or low-pass ("lp") filter at PrefilterHz.
	// The rendered output is never filtered.
	Prefilter   string
	PrefilterHz float64
	// FadeOut applies a half flat-top window to the last rate/12.5 IR samples.
	FadeOut bool
}

// Convolve returns a Func that convolves each stimulus with ir. The IR is
// resampled to the stimulus rate when the rates differ. A mono IR is applied
// to every stimulus channel; a stereo IR turns a mono stimulus into stereo.
func Convolve(ir audio.Buffer, opts ConvolutionOptions) Func {
	return func(stimulus audio.Buffer) (audio.Buffer, error) {
		if err := stimulus.Validate(); err != nil {
			return audio.Buffer{}, fmt.Errorf("convolve stimulus: %w", err)
		}
		if err := ir.Validate(); err != nil {
			return audio.Buffer{}, fmt.Errorf("convolve impulse response: %w", err)
		}

		kernel := ir
		if kernel.SampleRate != stimulus.SampleRate {
			kernel = Resample(kernel, stimulus.SampleRate)
		}
		if opts.FadeOut {
			kernel = FadeOut(kernel)
		}

		channels := max(stimulus.NumChannels(), kernel.NumChannels())
		out := audio.Buffer{SampleRate: stimulus.SampleRate, Channels: make([][]float64, channels)}
		for c := 0; c < channels; c++ {
			x := stimulus.Channels[min(c, stimulus.NumChannels()-1)]
			h := kernel.Channels[min(c, kernel.NumChannels()-1)]
			out.Channels[c] = FFTConvolve(x, h)
		}

		reference := out
		switch opts.Prefilter {
		case PrefilterNone:
		case PrefilterHighPass, PrefilterLowPass:
			if opts.PrefilterHz <= 0 || opts.PrefilterHz >= float64(out.SampleRate)/2 {
				return audio.Buffer{}, fmt.Errorf("convolve: prefilter frequency %.1f Hz out of range", opts.PrefilterHz)
			}
			filter := audio.Butterworth(prefilterOrder, opts.PrefilterHz, float64(out.SampleRate), opts.Prefilter == PrefilterHighPass)
			reference = filter.ApplyBuffer(out)
		default:
			return audio.Buffer{}, fmt.Errorf("convolve: unsupported prefilter %q", opts.Prefilter)
		}

		switch opts.Normalization {
		case "", NormalizeNone:
			return out, nil
		case NormalizePeak:
			return PeakNormalize(out, reference, opts.TargetDB)
		case NormalizeRMS:
			return RMSNormalize(out, reference, opts.TargetDB)
		case NormalizeLUFS:
			return LoudnessNormalize(out, reference, opts.TargetDB)
		case NormalizeIRSum:
			return IRSumNormalize(out, kernel, opts.TargetDB)
		default:
			return audio.Buffer{}, fmt.Errorf("convolve: unsupported normalization %q", opts.Normalization)
		}
	}
}

// FFTConvolve returns the full linear convolution of x and h, of length
// len(x)+len(h)-1.
func FFTConvolve(x, h []float64) []float64 {
	if len(x) == 0 || len(h) == 0 {
		return nil
	}
	n := len(x) + len(h) - 1
	size := nextPow2(n)
	fft := fourier.NewFFT(size)

	xp := make([]float64, size)
	copy(xp, x)
	hp := make([]float64, size)
	copy(hp, h)

	xc := fft.Coefficients(nil, xp)
	hc := fft.Coefficients(nil, hp)
	for i := range xc {
		xc[i] *= hc[i]
	}
	y := fft.Sequence(nil, xc)

	out := y[:n]
	scale := 1 / float64(size)
	for i := range out {
		out[i] *= scale
	}
	return out
}

// Resample converts buf to rate with FFT resampling. The output length is
// floor(frames * rate / source rate).
func Resample(buf audio.Buffer, rate int) audio.Buffer {
	if buf.SampleRate == rate || buf.SampleRate <= 0 || rate <= 0 {
		return buf.Clone()
	}
	frames := int(float64(buf.Frames()) * float64(rate) / float64(buf.SampleRate))
	out := audio.Buffer{SampleRate: rate, Channels: make([][]float64, len(buf.Channels))}
	for c, ch := range buf.Channels {
		out.Channels[c] = resampleFFT(ch, frames)
	}
	return out
}

func resampleFFT(x []float64, m int) []float64 {
	n := len(x)
	if m <= 0 || n == 0 {
		return nil
	}
	if m == n {
		return append([]float64(nil), x...)
	}

	src := fourier.NewFFT(n).Coefficients(nil, x)
	dst := make([]complex128, m/2+1)
	shorter := min(n, m)
	copy(dst, src[:shorter/2+1])
	if shorter%2 == 0 {
		switch {
		case m < n:
			dst[shorter/2] *= 2
		case m > n:
			dst[shorter/2] *= 0.5
		}
	}

	y := fourier.NewFFT(m).Sequence(nil, dst)
	scale := 1 / float64(n)
	for i := range y {
		y[i] *= scale
	}
	return y
}

// FadeOut multiplies the last rate/12.5 samples of every channel by the
// falling half of an HFT90D flat-top window.
func FadeOut(buf audio.Buffer) audio.Buffer {
	out := buf.Clone()
	size := int(float64(buf.SampleRate) / 12.5)
	if size <= 0 {
		return out
	}
	window := fadeWindow(size)
	for _, ch := range out.Channels {
		span := min(size, len(ch))
		offset := len(ch) - span
		for i := 0; i < span; i++ {
			ch[offset+i] *= window[size-span+i]
		}
	}
	return out
}

func fadeWindow(size int) []float64 {
	m := 2 * size
	full := make([]float64, m)
	peak := math.Inf(-1)
	for i := range full {
		fac := -math.Pi + 2*math.Pi*float64(i)/float64(m-1)
		var w float64
		for k, a := range hft90d {
			w += a * math.Cos(float64(k)*fac)
		}
		full[i] = w
		peak = math.Max(peak, w)
	}
	window := full[size:]
	for i := range window {
		window[i] /= peak
	}
	return window
}

func nextPow2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
