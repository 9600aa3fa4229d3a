package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"abxkit/internal/abx"
	"abxkit/internal/fileutil"
)

// Column layouts of the CSV tables.
var (
	InfoHeader    = []string{"first_name", "second_name", "date_birth", "gender", "hearing_impaired", "session_id"}
	ResultsHeader = []string{"trial", "id", "group", "a", "b", "ref", "x", "choice", "right_choice", "clicks", "time"}
	TrialsHeader  = []string{"trial", "id", "group", "a", "b", "ref"}
)

// EncodeInfo writes the participant table.
func EncodeInfo(w io.Writer, p abx.Participant) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(InfoHeader); err != nil {
		return err
	}
	if err := cw.Write(infoRow(p)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func infoRow(p abx.Participant) []string {
	return []string{
		p.FirstName,
		p.SecondName,
		p.DateOfBirth,
		p.Gender,
		strconv.FormatBool(p.HearingImpaired),
		p.SessionID,
	}
}

// EncodeResults writes one row per answered trial, numbered in presentation
// order.
func EncodeResults(w io.Writer, results []abx.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultsHeader); err != nil {
		return err
	}
	for i, r := range results {
		if err := cw.Write(resultRow(i+1, r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func resultRow(position int, r abx.Result) []string {
	right := "0"
	if r.Correct {
		right = "1"
	}
	return []string{
		strconv.Itoa(position),
		r.ID,
		r.Group,
		r.A,
		r.B,
		r.Ref,
		string(r.RefSide()),
		string(r.Choice),
		right,
		strconv.Itoa(r.Clicks),
		strconv.FormatFloat(r.Elapsed.Seconds(), 'f', 3, 64),
	}
}

// EncodeTrials writes a prepared trial table.
func EncodeTrials(w io.Writer, set abx.TrialSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TrialsHeader); err != nil {
		return err
	}
	for i, t := range set {
		row := []string{strconv.Itoa(i + 1), t.ID, t.Group, t.A, t.B, t.Ref}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeTrials parses a table written by EncodeTrials. Seq is the row's
// presentation position. Extra columns, such as those of a results table,
// are ignored.
func DecodeTrials(r io.Reader) (abx.TrialSet, error) {
	rows, index, err := readTable(r, TrialsHeader)
	if err != nil {
		return nil, err
	}
	set := make(abx.TrialSet, 0, len(rows))
	for i, row := range rows {
		t := abx.Trial{
			Seq:   i + 1,
			ID:    row[index["id"]],
			Group: row[index["group"]],
			A:     row[index["a"]],
			B:     row[index["b"]],
			Ref:   row[index["ref"]],
		}
		set = append(set, t)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// DecodeResults parses a results table.
func DecodeResults(r io.Reader) ([]abx.Result, error) {
	rows, index, err := readTable(r, ResultsHeader)
	if err != nil {
		return nil, err
	}
	out := make([]abx.Result, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		trial := abx.Trial{
			Seq:   i + 1,
			ID:    row[index["id"]],
			Group: row[index["group"]],
			A:     row[index["a"]],
			B:     row[index["b"]],
			Ref:   row[index["ref"]],
		}
		if err := trial.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		choice := abx.Side(strings.ToUpper(strings.TrimSpace(row[index["choice"]])))
		if choice != abx.SideA && choice != abx.SideB {
			return nil, fmt.Errorf("%w: line %d: choice %q", abx.ErrInput, line, row[index["choice"]])
		}
		clicks, err := strconv.Atoi(strings.TrimSpace(row[index["clicks"]]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: clicks: %v", abx.ErrInput, line, err)
		}
		seconds, err := strconv.ParseFloat(strings.TrimSpace(row[index["time"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: time: %v", abx.ErrInput, line, err)
		}
		elapsed := time.Duration(seconds * float64(time.Second))
		out = append(out, abx.Result{Trial: trial, Response: abx.NewResponse(trial, choice, clicks, elapsed)})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: results table is empty", abx.ErrInput)
	}
	return out, nil
}

func readTable(r io.Reader, required []string) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: table is empty", abx.ErrInput)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read header: %v", abx.ErrInput, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, nil, fmt.Errorf("%w: missing column %q", abx.ErrInput, name)
		}
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read rows: %v", abx.ErrInput, err)
	}
	for i, row := range rows {
		if len(row) < len(header) {
			return nil, nil, fmt.Errorf("%w: line %d has %d fields, want %d", abx.ErrInput, i+2, len(row), len(header))
		}
	}
	return rows, index, nil
}

// WriteTrials saves a trial table to path.
func WriteTrials(path string, set abx.TrialSet) error {
	return writeFile(path, func(w io.Writer) error { return EncodeTrials(w, set) })
}

// ReadTrials loads a trial table from path.
func ReadTrials(path string) (abx.TrialSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open trials %s: %w", abx.ErrFileIO, path, err)
	}
	defer f.Close()
	set, err := DecodeTrials(f)
	if err != nil {
		return nil, fmt.Errorf("parse trials %s: %w", path, err)
	}
	return set, nil
}

// ReadResults loads a results table from path.
func ReadResults(path string) ([]abx.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open results %s: %w", abx.ErrFileIO, path, err)
	}
	defer f.Close()
	out, err := DecodeResults(f)
	if err != nil {
		return nil, fmt.Errorf("parse results %s: %w", path, err)
	}
	return out, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := fileutil.WriteAtomic(path, 0o644, write); err != nil {
		return fmt.Errorf("%w: write %s: %w", abx.ErrFileIO, path, err)
	}
	return nil
}
