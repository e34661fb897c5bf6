package decode

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kislikjeka/tradebook/internal/ingest"
)

// DecodeXLSX reads the first sheet of a workbook. The first row is the
// header; cell values are taken as displayed.
func DecodeXLSX(r io.Reader) ([]ingest.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %w", ErrMalformed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %w", ErrMalformed, sheets[0], err)
	}
	if len(all) == 0 {
		return nil, ErrNoHeader
	}

	rows := buildRows(all[0], all[1:])
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return rows, nil
}
