package importer

import (
	"errors"

	"github.com/healthlog-app/healthlog/pkg/records"
)

// ErrEmptyTable reports a file with no header row.
var ErrEmptyTable = errors.New("no header row found")

// RawTable is a parsed spreadsheet before any header normalization:
// rows are keyed by the header spelling exactly as it appeared in the
// file.
type RawTable struct {
	Headers []string
	Rows    []records.Row
}

// tableFromCells builds a RawTable from a header row plus data rows.
// Ragged rows are tolerated; short rows simply lack the trailing cells.
func tableFromCells(cells [][]string) (*RawTable, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, ErrEmptyTable
	}

	table := &RawTable{Headers: cells[0]}
	for _, cell := range cells[1:] {
		row := make(records.Row, len(table.Headers))
		empty := true
		for i, h := range table.Headers {
			if i >= len(cell) {
				break
			}
			row[h] = cell[i]
			if cell[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
