package testsupport

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"abxkit/internal/audio"
)

// Sine returns a buffer holding a sine tone on every channel.
func Sine(rate int, freq, amplitude, seconds float64, channels int) audio.Buffer {
	frames := int(float64(rate) * seconds)
	buf := audio.NewBuffer(rate, channels, frames)
	for c := range buf.Channels {
		for i := range buf.Channels[c] {
			buf.Channels[c][i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
		}
	}
	return buf
}

// Impulse returns a buffer with a single sample of the given amplitude at
// offset, followed by silence.
func Impulse(rate, frames, offset int, amplitude float64) audio.Buffer {
	buf := audio.NewBuffer(rate, 1, frames)
	buf.Channels[0][offset] = amplitude
	return buf
}

// WriteWAV encodes buf as 16-bit PCM at path, creating parent directories.
func WriteWAV(t testing.TB, path string, buf audio.Buffer) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := audio.WriteWAV(path, buf, 16); err != nil {
		t.Fatalf("write wav %s: %v", path, err)
	}
}

// ReadWAV decodes path, failing the test on error.
func ReadWAV(t testing.TB, path string) audio.Buffer {
	t.Helper()

	buf, err := audio.ReadWAV(path)
	if err != nil {
		t.Fatalf("read wav %s: %v", path, err)
	}
	return buf
}
