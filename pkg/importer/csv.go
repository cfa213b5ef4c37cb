package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/healthlog-app/healthlog/pkg/records"
)

// ReadCSV parses a CSV export into a RawTable. The first record is the
// header row. Quoting follows RFC 4180; ragged records are accepted since
// hand-edited exports frequently drop trailing empty cells.
func ReadCSV(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	cells, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return tableFromCells(cells)
}

// ReadCSVFile parses the CSV file at path.
func ReadCSVFile(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV writes the dataset's canonical headers and rows as CSV.
func WriteCSV(w io.Writer, ds *records.Dataset) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ds.Headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(ds.Headers))
	for _, row := range ds.Rows {
		for i, h := range ds.Headers {
			record[i] = row[h]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
