package audio

import (
	"errors"
	"math"
)

// ErrTooShort reports a signal shorter than one 400 ms gating block.
var ErrTooShort = errors.New("audio shorter than one loudness block")

const (
	blockSeconds   = 0.4
	blockOverlap   = 0.75
	absoluteGate   = -70.0
	relativeGateLU = -10.0
	loudnessOffset = -0.691
)

// K-weighting stage parameters. The coefficients are derived for the actual
// sample rate so they match the ITU-R BS.1770-4 48 kHz table exactly.
const (
	shelfHz     = 1681.974450955533
	shelfGainDB = 3.999843853973347
	shelfQ      = 0.7071752369554196
	rlbHz       = 38.13547087602444
	rlbQ        = 0.5003270373238773
)

// KWeighting returns the ITU-R BS.1770-4 pre-filter for the given sample
// rate: a high-shelf stage followed by the RLB high-pass.
func KWeighting(rate float64) Cascade {
	return Cascade{kShelf(rate), kHighPass(rate)}
}

func kShelf(rate float64) Biquad {
	k := math.Tan(math.Pi * shelfHz / rate)
	vh := math.Pow(10, shelfGainDB/20)
	vb := math.Pow(vh, 0.4996667741545416)
	a0 := 1 + k/shelfQ + k*k
	return Biquad{
		B0: (vh + vb*k/shelfQ + k*k) / a0,
		B1: 2 * (k*k - vh) / a0,
		B2: (vh - vb*k/shelfQ + k*k) / a0,
		A1: 2 * (k*k - 1) / a0,
		A2: (1 - k/shelfQ + k*k) / a0,
	}
}

func kHighPass(rate float64) Biquad {
	k := math.Tan(math.Pi * rlbHz / rate)
	a0 := 1 + k/rlbQ + k*k
	return Biquad{
		B0: 1,
		B1: -2,
		B2: 1,
		A1: 2 * (k*k - 1) / a0,
		A2: (1 - k/rlbQ + k*k) / a0,
	}
}

// IntegratedLoudness measures gated loudness in LUFS per ITU-R BS.1770-4.
// Mono and stereo channels are weighted equally. A fully gated signal
// returns -Inf.
func IntegratedLoudness(buf Buffer) (float64, error) {
	if err := buf.Validate(); err != nil {
		return 0, err
	}
	rate := float64(buf.SampleRate)
	frames := buf.Frames()
	duration := float64(frames) / rate
	if duration < blockSeconds {
		return 0, ErrTooShort
	}

	step := 1 - blockOverlap
	numBlocks := int(math.Round((duration-blockSeconds)/(blockSeconds*step))) + 1
	blockLen := blockSeconds * rate

	weighting := KWeighting(rate)
	// power[j] is the channel-summed mean square of block j.
	power := make([]float64, numBlocks)
	for _, ch := range buf.Channels {
		filtered := weighting.Apply(ch)
		for j := 0; j < numBlocks; j++ {
			lo := int(blockSeconds * (float64(j) * step) * rate)
			hi := int(blockSeconds * (float64(j)*step + 1) * rate)
			if hi > frames {
				hi = frames
			}
			var sum float64
			for _, v := range filtered[lo:hi] {
				sum += v * v
			}
			power[j] += sum / blockLen
		}
	}

	blockLoudness := func(z float64) float64 { return loudnessOffset + 10*math.Log10(z) }

	gated := func(threshold float64) (float64, int) {
		var sum float64
		var n int
		for _, z := range power {
			if l := blockLoudness(z); l >= absoluteGate && l > threshold {
				sum += z
				n++
			}
		}
		return sum, n
	}

	sum, n := gated(math.Inf(-1))
	if n == 0 {
		return math.Inf(-1), nil
	}
	relative := blockLoudness(sum/float64(n)) + relativeGateLU
	sum, n = gated(relative)
	if n == 0 {
		return math.Inf(-1), nil
	}
	return blockLoudness(sum / float64(n)), nil
}
