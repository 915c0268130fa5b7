// Package ingest parses uploaded name-list files into acquisition names.
//
// Lists come from registrar exports, which carry the surname in a
// "GIVEN NAME" column and the forename in a "FIRST NAME" column. Rows
// missing either value are skipped.
package ingest

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

const (
	givenNameHeader = "GIVEN NAME"
	firstNameHeader = "FIRST NAME"
)

// ParseNames extracts full names from an uploaded file. The filename's
// extension decides the parser; .xlsx, .xls and .csv are accepted.
func ParseNames(filename string, data []byte) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xls":
		return parseXLSX(data)
	case ".csv":
		return parseCSV(data)
	default:
		return nil, eris.Errorf("ingest: unsupported file type %q, use .xlsx, .xls or .csv", ext)
	}
}

func parseXLSX(data []byte) ([]string, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open workbook")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("ingest: workbook has no sheets")
	}

	rows := make([][]string, 0, len(f.Sheets[0].Rows))
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return namesFromRows(rows)
}

func parseCSV(data []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv")
	}
	return namesFromRows(rows)
}

func namesFromRows(rows [][]string) ([]string, error) {
	if len(rows) == 0 {
		return nil, eris.New("ingest: file is empty")
	}

	givenIdx, firstIdx := -1, -1
	for i, h := range rows[0] {
		switch strings.ToUpper(strings.TrimSpace(h)) {
		case givenNameHeader:
			givenIdx = i
		case firstNameHeader:
			firstIdx = i
		}
	}
	if givenIdx < 0 || firstIdx < 0 {
		return nil, eris.Errorf("ingest: file must have %q and %q columns", givenNameHeader, firstNameHeader)
	}

	var names []string
	for _, row := range rows[1:] {
		if givenIdx >= len(row) || firstIdx >= len(row) {
			continue
		}
		given := strings.TrimSpace(row[givenIdx])
		first := strings.TrimSpace(row[firstIdx])
		if given == "" || first == "" {
			continue
		}
		names = append(names, given+" "+first)
	}
	return names, nil
}
