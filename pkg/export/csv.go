package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVEncoder renders exports as RFC 4180 comma-separated values.
type CSVEncoder struct{}

// Encode renders the header and rows as CSV.
func (e *CSVEncoder) Encode(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType returns the CSV MIME type.
func (e *CSVEncoder) ContentType() string {
	return "text/csv"
}

// Extension returns "csv".
func (e *CSVEncoder) Extension() string {
	return "csv"
}
