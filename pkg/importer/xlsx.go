package importer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/healthlog-app/healthlog/pkg/records"
)

// ReadXLSX parses one sheet of an Excel workbook into a RawTable. An empty
// sheet name picks a sheet named after the record kind when present,
// otherwise the first sheet.
func ReadXLSX(path, sheet string, kind records.Kind) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook '%s': %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = pickSheet(f.GetSheetList(), kind)
	}
	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet '%s': %w", sheet, err)
	}
	return tableFromCells(cells)
}

func pickSheet(sheets []string, kind records.Kind) string {
	for _, s := range sheets {
		if strings.EqualFold(strings.TrimSpace(s), kind.String()) {
			return s
		}
	}
	if len(sheets) > 0 {
		return sheets[0]
	}
	return "Sheet1"
}

// WriteXLSX writes each dataset to its own sheet named after the kind.
func WriteXLSX(path string, datasets map[records.Kind]*records.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for _, kind := range records.Kinds {
		ds, ok := datasets[kind]
		if !ok || ds == nil {
			continue
		}
		sheet := kind.String()
		if first {
			// Rename the default sheet instead of leaving it empty.
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("failed to create sheet '%s': %w", sheet, err)
			}
		}
		if err := writeSheet(f, sheet, ds); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook '%s': %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, ds *records.Dataset) error {
	header := make([]interface{}, len(ds.Headers))
	for i, h := range ds.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row on '%s': %w", sheet, err)
	}

	for i, row := range ds.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(ds.Headers))
		for j, h := range ds.Headers {
			values[j] = row[h]
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d on '%s': %w", i+2, sheet, err)
		}
	}
	return nil
}
