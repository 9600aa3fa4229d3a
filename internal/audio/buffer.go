package audio

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrUnsupported reports a WAV layout this package cannot handle.
var ErrUnsupported = errors.New("unsupported audio format")

// MaxChannels is the largest channel count a Buffer may carry.
const MaxChannels = 2

// Buffer is decoded audio. Channels[c][i] is sample i of channel c.
type Buffer struct {
	SampleRate int
	Channels   [][]float64
}

// NewBuffer allocates a silent buffer.
func NewBuffer(sampleRate, channels, frames int) Buffer {
	buf := Buffer{SampleRate: sampleRate, Channels: make([][]float64, channels)}
	for c := range buf.Channels {
		buf.Channels[c] = make([]float64, frames)
	}
	return buf
}

// NumChannels returns the channel count.
func (b Buffer) NumChannels() int { return len(b.Channels) }

// Frames returns the number of samples per channel.
func (b Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the playback length.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(b.Frames()) / float64(b.SampleRate) * float64(time.Second))
}

// Validate checks rate, channel count, and that all channels have equal length.
func (b Buffer) Validate() error {
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrUnsupported, b.SampleRate)
	}
	if n := len(b.Channels); n == 0 || n > MaxChannels {
		return fmt.Errorf("%w: %d channels", ErrUnsupported, n)
	}
	frames := len(b.Channels[0])
	for c, ch := range b.Channels {
		if len(ch) != frames {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", ErrUnsupported, c, len(ch), frames)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (b Buffer) Clone() Buffer {
	out := Buffer{SampleRate: b.SampleRate, Channels: make([][]float64, len(b.Channels))}
	for c, ch := range b.Channels {
		out.Channels[c] = append([]float64(nil), ch...)
	}
	return out
}

// Scaled returns a copy multiplied by factor.
func (b Buffer) Scaled(factor float64) Buffer {
	out := b.Clone()
	for _, ch := range out.Channels {
		for i := range ch {
			ch[i] *= factor
		}
	}
	return out
}

// Peak returns max |x| across all channels.
func (b Buffer) Peak() float64 {
	peak := 0.0
	for _, ch := range b.Channels {
		for _, v := range ch {
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
	}
	return peak
}

// RMS returns the root mean square across all channels and samples.
func (b Buffer) RMS() float64 {
	var sum float64
	var n int
	for _, ch := range b.Channels {
		for _, v := range ch {
			sum += v * v
		}
		n += len(ch)
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}

// AbsSum returns the sum of |x| across all channels.
func (b Buffer) AbsSum() float64 {
	var sum float64
	for _, ch := range b.Channels {
		for _, v := range ch {
			sum += math.Abs(v)
		}
	}
	return sum
}

// Clipped reports whether any sample exceeds full scale.
func (b Buffer) Clipped() bool {
	return b.Peak() > 1
}

// DB converts a linear amplitude to decibels relative to full scale.
func DB(amplitude float64) float64 {
	return 20 * math.Log10(amplitude)
}

// Amplitude converts decibels to a linear factor.
func Amplitude(db float64) float64 {
	return math.Pow(10, db/20)
}
