// Package export produces downloadable documents from the full,
// unpaginated result set of a table. The caller queries rows under the
// identical resolved sort and search state used for on-screen
// rendering, so the exported file always matches what the user sees.
package export

import (
	"fmt"
	"strings"
)

// Format selects the export file format.
type Format string

// Supported format selectors
const (
	// FormatCSV exports comma-separated values.
	FormatCSV Format = "csv"
	// FormatXLSX exports an Excel workbook.
	FormatXLSX Format = "xlsx"
	// FormatPDF exports a PDF document.
	FormatPDF Format = "pdf"
)

// Document is a fully rendered export: payload bytes, MIME content
// type, and the filename to offer for download.
type Document struct {
	Payload     []byte
	ContentType string
	Filename    string
}

// Encoder renders a header row plus data rows into one format.
type Encoder interface {
	// Encode renders the document payload.
	Encode(header []string, rows [][]string) ([]byte, error)

	// ContentType returns the MIME type of the payload.
	ContentType() string

	// Extension returns the filename extension without the dot.
	Extension() string
}

// UnsupportedFormatError reports a format selector outside csv|xlsx|pdf.
type UnsupportedFormatError struct {
	Format string
}

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q", e.Format)
}

// NoEncoderError reports a recognized format with no registered
// encoder.
type NoEncoderError struct {
	Format Format
}

// Error implements the error interface.
func (e *NoEncoderError) Error() string {
	return fmt.Sprintf("no encoder registered for format %q", e.Format)
}

// ParseFormat validates a raw format selector. Unknown selectors fail
// with *UnsupportedFormatError; the selector originates from URL
// parameters.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(raw)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", &UnsupportedFormatError{Format: raw}
	}
}

// Registry maps formats to encoders. CSV is built in; xlsx and pdf are
// registration slots for external encoder implementations.
type Registry struct {
	encoders map[Format]Encoder
}

// NewRegistry creates a registry with the CSV encoder pre-registered.
func NewRegistry() *Registry {
	return &Registry{
		encoders: map[Format]Encoder{
			FormatCSV: &CSVEncoder{},
		},
	}
}

// Register adds or replaces the encoder for a format.
func (r *Registry) Register(format Format, encoder Encoder) {
	r.encoders[format] = encoder
}

// Export renders rows into the requested format. name becomes the
// filename stem.
func (r *Registry) Export(name string, format Format, header []string, rows [][]string) (*Document, error) {
	encoder, ok := r.encoders[format]
	if !ok {
		return nil, &NoEncoderError{Format: format}
	}

	payload, err := encoder.Encode(header, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s export: %w", format, err)
	}

	return &Document{
		Payload:     payload,
		ContentType: encoder.ContentType(),
		Filename:    fmt.Sprintf("%s.%s", name, encoder.Extension()),
	}, nil
}
