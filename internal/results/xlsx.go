package results

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"abxkit/internal/abx"
)

const (
	infoSheet    = "Info"
	resultsSheet = "Results"
)

// WriteXLSX saves the participant and results tables as two sheets of one
// workbook. Numeric columns are stored as numbers.
func WriteXLSX(path string, p abx.Participant, results []abx.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", infoSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(resultsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	if err := setRow(f, infoSheet, 1, toCells(InfoHeader)); err != nil {
		return err
	}
	info := []any{p.FirstName, p.SecondName, p.DateOfBirth, p.Gender, p.HearingImpaired, p.SessionID}
	if err := setRow(f, infoSheet, 2, info); err != nil {
		return err
	}

	if err := setRow(f, resultsSheet, 1, toCells(ResultsHeader)); err != nil {
		return err
	}
	for i, r := range results {
		right := 0
		if r.Correct {
			right = 1
		}
		row := []any{i + 1, r.ID, r.Group, r.A, r.B, r.Ref, string(r.RefSide()), string(r.Choice), right, r.Clicks, r.Elapsed.Seconds()}
		if err := setRow(f, resultsSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: save workbook %s: %w", abx.ErrFileIO, path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
