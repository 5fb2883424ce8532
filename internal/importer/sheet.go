package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Config says where flashcard fields live in a workbook.
type Config struct {
	Sheet string
	// StartRow is the first data row, 1-based. Rows above it are headers.
	StartRow    int
	FrontColumn string
	BackColumn  string
	HintColumn  string
}

// DefaultConfig reads Sheet1 with a header row and front, back and hint in
// columns A, B and C.
func DefaultConfig() Config {
	return Config{
		Sheet:       "Sheet1",
		StartRow:    2,
		FrontColumn: "A",
		BackColumn:  "B",
		HintColumn:  "C",
	}
}

// Row is one spreadsheet row's flashcard fields.
type Row struct {
	Number int
	Front  string
	Back   string
	Hint   string
}

type columns struct {
	front, back, hint int
}

func (c Config) columns() (columns, error) {
	var cols columns
	var err error
	if cols.front, err = excelize.ColumnNameToNumber(c.FrontColumn); err != nil {
		return cols, fmt.Errorf("front column: %w", err)
	}
	if cols.back, err = excelize.ColumnNameToNumber(c.BackColumn); err != nil {
		return cols, fmt.Errorf("back column: %w", err)
	}
	if c.HintColumn != "" {
		if cols.hint, err = excelize.ColumnNameToNumber(c.HintColumn); err != nil {
			return cols, fmt.Errorf("hint column: %w", err)
		}
	}
	return cols, nil
}

// cell returns the 1-based column n of row, or "" past its end.
func cell(row []string, n int) string {
	if n < 1 || n > len(row) {
		return ""
	}
	return strings.TrimSpace(row[n-1])
}

// ReadRows reads flashcard rows from an .xlsx workbook. Blank rows are
// dropped; rows with only some fields are kept so that the importer can
// report them.
func ReadRows(r io.Reader, cfg Config) ([]Row, error) {
	cols, err := cfg.columns()
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := cfg.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	start := max(cfg.StartRow, 1)
	rows := make([]Row, 0, len(raw))
	for i, values := range raw {
		number := i + 1
		if number < start {
			continue
		}
		row := Row{
			Number: number,
			Front:  cell(values, cols.front),
			Back:   cell(values, cols.back),
			Hint:   cell(values, cols.hint),
		}
		if row.Front == "" && row.Back == "" && row.Hint == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
