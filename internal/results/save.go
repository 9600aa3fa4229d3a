package results

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"abxkit/internal/abx"
	"abxkit/internal/textutil"
)

// TimestampLayout formats the session start time in output file names.
const TimestampLayout = "06-01-02_15-04"

// Files lists the outputs of one saved session. XLSX is empty when the
// workbook was not requested.
type Files struct {
	Info    string `json:"info"`
	Results string `json:"results"`
	XLSX    string `json:"xlsx,omitempty"`
}

// BaseName returns the shared file name prefix for a session.
func BaseName(started time.Time, p abx.Participant) string {
	return fmt.Sprintf("%s_%s_%s",
		started.Format(TimestampLayout),
		nameToken(p.FirstName),
		nameToken(p.SecondName),
	)
}

func nameToken(name string) string {
	clean := textutil.SanitizeFileName(name)
	if clean == "" {
		return "anonymous"
	}
	return textutil.CollapseSpaces(clean, "-")
}

// Save writes the info and results tables (and optionally the workbook) into
// dir. The directory must already exist. On failure no output file is left
// behind.
func Save(dir string, started time.Time, p abx.Participant, results []abx.Result, withXLSX bool) (Files, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Files{}, fmt.Errorf("%w: results directory %s: %w", abx.ErrFileIO, dir, err)
	}
	if !info.IsDir() {
		return Files{}, fmt.Errorf("%w: results path %s is not a directory", abx.ErrFileIO, dir)
	}
	if len(results) == 0 {
		return Files{}, fmt.Errorf("%w: no results to save", abx.ErrInput)
	}

	base := filepath.Join(dir, BaseName(started, p))
	files := Files{
		Info:    base + "_info.csv",
		Results: base + "_results.csv",
	}
	var written []string
	rollback := func(err error) (Files, error) {
		for _, path := range written {
			_ = os.Remove(path)
		}
		return Files{}, err
	}
	if err := writeFile(files.Info, func(w io.Writer) error { return EncodeInfo(w, p) }); err != nil {
		return Files{}, err
	}
	written = append(written, files.Info)
	if err := writeFile(files.Results, func(w io.Writer) error { return EncodeResults(w, results) }); err != nil {
		return rollback(err)
	}
	written = append(written, files.Results)
	if withXLSX {
		files.XLSX = base + "_results.xlsx"
		if err := WriteXLSX(files.XLSX, p, results); err != nil {
			return rollback(err)
		}
	}
	return files, nil
}
