package decode

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/kislikjeka/tradebook/internal/ingest"
)

// DecodeCSV parses a delimited-text export with a header row
func DecodeCSV(data []byte) ([]ingest.RawRow, error) {
	decoded, _, err := ToUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("encoding detection failed: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("%w: failed to read header row: %w", ErrMalformed, err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse csv: %w", ErrMalformed, err)
	}

	rows := buildRows(header, records)
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return rows, nil
}
