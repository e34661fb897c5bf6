// Package decode turns uploaded broker exports (CSV or XLSX) into header-keyed
// rows for the ingestion pipeline.
package decode

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/kislikjeka/tradebook/internal/ingest"
)

// Format is a supported upload format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromFilename picks the decoder from the file extension
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Decode reads the whole upload and decodes it according to the file name's
// extension
func Decode(name string, r io.Reader) ([]ingest.RawRow, error) {
	format, err := FormatFromFilename(name)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	switch format {
	case FormatXLSX:
		return DecodeXLSX(bytes.NewReader(data))
	default:
		return DecodeCSV(data)
	}
}

// buildRows zips a header row with each record. Cells are trimmed, short
// records are padded, extra cells and blank-header columns are dropped, and
// records with no content are skipped.
func buildRows(header []string, records [][]string) []ingest.RawRow {
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]ingest.RawRow, 0, len(records))
	for _, rec := range records {
		row := make(ingest.RawRow, len(header))
		blank := true
		for i, h := range header {
			if h == "" {
				continue
			}
			var cell string
			if i < len(rec) {
				cell = strings.TrimSpace(rec[i])
			}
			if cell != "" {
				blank = false
			}
			row[h] = ingest.Text(cell)
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows
}
