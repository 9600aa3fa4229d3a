package stimuli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrFileIO reports an unreadable input location or an unwritable output path.
var ErrFileIO = errors.New("file i/o")

// Stimulus is one audio file available for comparison.
type Stimulus struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Condition string `json:"condition"`
	Item      string `json:"item,omitempty"`
}

// New builds a Stimulus from a file path, parsing labels from its base name.
func New(path string) Stimulus {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	condition, item := ParseName(name)
	return Stimulus{
		Path:      path,
		Name:      name,
		Condition: condition,
		Item:      item,
	}
}

// ParseName extracts the condition and item labels from a base file name
// without extension.
func ParseName(name string) (condition, item string) {
	name = strings.TrimSpace(name)
	tokens := strings.Split(name, "_")
	switch {
	case len(tokens) >= 3:
		return tokens[len(tokens)-2], tokens[len(tokens)-1]
	case len(tokens) == 2:
		return tokens[0], tokens[1]
	default:
		return name, ""
	}
}

// IsWAV reports whether the path has a .wav extension, ignoring case.
func IsWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

// Discover lists the WAV files directly inside dir, sorted by path. Hidden
// files and directories are skipped. An empty result is not an error; callers
// decide how many stimuli they need.
func Discover(dir string) ([]Stimulus, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("%w: stimuli directory not set", ErrFileIO)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read stimuli directory %s: %w", ErrFileIO, dir, err)
	}

	var out []Stimulus
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !IsWAV(name) {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: stat stimulus %s: %w", ErrFileIO, path, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		out = append(out, New(path))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Paths returns the file paths of the given stimuli in order.
func Paths(list []Stimulus) []string {
	paths := make([]string, len(list))
	for i, s := range list {
		paths[i] = s.Path
	}
	return paths
}
