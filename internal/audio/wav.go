package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/youpy/go-wav"
)

type riffReader interface {
	io.Reader
	io.ReaderAt
}

// ReadWAV decodes a WAV file from disk.
func ReadWAV(path string) (Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return Buffer{}, fmt.Errorf("open wav %s: %w", path, err)
	}
	defer f.Close()

	buf, err := DecodeWAV(f)
	if err != nil {
		return Buffer{}, fmt.Errorf("decode wav %s: %w", path, err)
	}
	return buf, nil
}

// DecodeWAV reads every sample from r.
func DecodeWAV(r riffReader) (Buffer, error) {
	reader := wav.NewReader(r)
	format, err := reader.Format()
	if err != nil {
		return Buffer{}, fmt.Errorf("read format: %w", err)
	}
	channels := int(format.NumChannels)
	if channels < 1 || channels > MaxChannels {
		return Buffer{}, fmt.Errorf("%w: %d channels", ErrUnsupported, channels)
	}

	buf := Buffer{SampleRate: int(format.SampleRate), Channels: make([][]float64, channels)}
	for {
		samples, err := reader.ReadSamples()
		for _, sample := range samples {
			for c := 0; c < channels; c++ {
				buf.Channels[c] = append(buf.Channels[c], reader.FloatValue(sample, uint(c)))
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Buffer{}, fmt.Errorf("read samples: %w", err)
		}
	}
	if err := buf.Validate(); err != nil {
		return Buffer{}, err
	}
	return buf, nil
}

// WriteWAV encodes buf as integer PCM at the given bit depth. The file is
// created or truncated.
func WriteWAV(path string, buf Buffer, bitsPerSample int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav %s: %w", path, err)
	}
	if err := EncodeWAV(f, buf, bitsPerSample); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode wav %s: %w", path, err)
	}
	return f.Close()
}

// EncodeWAV writes buf to w. Samples outside [-1, 1] are clipped.
func EncodeWAV(w io.Writer, buf Buffer, bitsPerSample int) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	switch bitsPerSample {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d bits per sample", ErrUnsupported, bitsPerSample)
	}

	frames := buf.Frames()
	writer := wav.NewWriter(w, uint32(frames), uint16(buf.NumChannels()), uint32(buf.SampleRate), uint16(bitsPerSample))
	scale := math.Pow(2, float64(bitsPerSample-1)) - 1

	const chunk = 4096
	samples := make([]wav.Sample, 0, chunk)
	for i := 0; i < frames; i++ {
		var sample wav.Sample
		for c, ch := range buf.Channels {
			sample.Values[c] = quantize(ch[i], scale)
		}
		samples = append(samples, sample)
		if len(samples) == chunk {
			if err := writer.WriteSamples(samples); err != nil {
				return fmt.Errorf("write samples: %w", err)
			}
			samples = samples[:0]
		}
	}
	if len(samples) > 0 {
		if err := writer.WriteSamples(samples); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
	}
	return nil
}

func quantize(v, scale float64) int {
	switch {
	case v > 1:
		v = 1
	case v < -1:
		v = -1
	}
	return int(math.Round(v * scale))
}
