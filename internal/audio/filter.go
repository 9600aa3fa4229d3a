package audio

import "math"

// Biquad is a normalized second-order IIR section (a0 == 1).
type Biquad struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Cascade is a chain of biquad sections applied in order.
type Cascade []Biquad

// Apply filters x in transposed direct form II and returns a new slice.
func (q Biquad) Apply(x []float64) []float64 {
	out := make([]float64, len(x))
	var z1, z2 float64
	for i, in := range x {
		y := q.B0*in + z1
		z1 = q.B1*in - q.A1*y + z2
		z2 = q.B2*in - q.A2*y
		out[i] = y
	}
	return out
}

// Apply runs every section over x.
func (c Cascade) Apply(x []float64) []float64 {
	out := x
	for _, q := range c {
		out = q.Apply(out)
	}
	if len(c) == 0 {
		out = append([]float64(nil), x...)
	}
	return out
}

// ApplyBuffer filters every channel of buf.
func (c Cascade) ApplyBuffer(buf Buffer) Buffer {
	out := Buffer{SampleRate: buf.SampleRate, Channels: make([][]float64, len(buf.Channels))}
	for i, ch := range buf.Channels {
		out.Channels[i] = c.Apply(ch)
	}
	return out
}

func normalized(b0, b1, b2, a0, a1, a2 float64) Biquad {
	return Biquad{B0: b0 / a0, B1: b1 / a0, B2: b2 / a0, A1: a1 / a0, A2: a2 / a0}
}

// LowPass designs an RBJ low-pass section.
func LowPass(fc, q, rate float64) Biquad {
	w0 := 2 * math.Pi * fc / rate
	cos, alpha := math.Cos(w0), math.Sin(w0)/(2*q)
	return normalized((1-cos)/2, 1-cos, (1-cos)/2, 1+alpha, -2*cos, 1-alpha)
}

// HighPass designs an RBJ high-pass section.
func HighPass(fc, q, rate float64) Biquad {
	w0 := 2 * math.Pi * fc / rate
	cos, alpha := math.Cos(w0), math.Sin(w0)/(2*q)
	return normalized((1+cos)/2, -(1 + cos), (1+cos)/2, 1+alpha, -2*cos, 1-alpha)
}

// Butterworth designs an even-order Butterworth filter as cascaded biquads.
// Odd orders are rounded up. highPass selects the response.
func Butterworth(order int, fc, rate float64, highPass bool) Cascade {
	if order < 2 {
		order = 2
	}
	if order%2 == 1 {
		order++
	}
	sections := make(Cascade, 0, order/2)
	for k := 1; k <= order/2; k++ {
		q := 1 / (2 * math.Cos(math.Pi*float64(2*k-1)/float64(2*order)))
		if highPass {
			sections = append(sections, HighPass(fc, q, rate))
		} else {
			sections = append(sections, LowPass(fc, q, rate))
		}
	}
	return sections
}
