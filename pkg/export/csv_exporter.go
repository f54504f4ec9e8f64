package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"unicode"
)

// utf8BOM lets spreadsheet tools detect UTF-8 so Arabic names survive the round trip.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders Dataset records into CSV bytes. Cells that a spreadsheet would
// evaluate as a formula are prefixed with a quote, since lead fields are typed by the public.
type CSVExporter struct {
	withBOM bool
}

// CSVOption customises a CSVExporter.
type CSVOption func(*CSVExporter)

// WithoutBOM drops the byte order mark, for consumers that are not spreadsheets.
func WithoutBOM() CSVOption {
	return func(e *CSVExporter) { e.withBOM = false }
}

// NewCSVExporter builds a CSV exporter that prefixes output with a UTF-8 byte order mark.
func NewCSVExporter(opts ...CSVOption) *CSVExporter {
	e := &CSVExporter{withBOM: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	if e.withBOM {
		buf.Write(utf8BOM)
	}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	record := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			record[i] = neutralize(row[header])
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// neutralize defuses formula injection. A leading sign followed by a digit or space is
// left alone so phone numbers like "+20 10..." stay readable.
func neutralize(cell string) string {
	if cell == "" {
		return cell
	}
	switch cell[0] {
	case '=', '@', '\t', '\r':
		return "'" + cell
	case '+', '-':
		if len(cell) == 1 {
			return cell
		}
		next := rune(cell[1])
		if unicode.IsDigit(next) || next == ' ' {
			return cell
		}
		return "'" + cell
	}
	return cell
}
