package decode_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"

	"github.com/kislikjeka/tradebook/internal/decode"
)

// =============================================================================
// Format detection
// =============================================================================

func TestFormatFromFilename(t *testing.T) {
	tests := []struct {
		name    string
		want    decode.Format
		wantErr bool
	}{
		{"trades.csv", decode.FormatCSV, false},
		{"TRADES.CSV", decode.FormatCSV, false},
		{"so-lenh.xlsx", decode.FormatXLSX, false},
		{"report.xls", "", true},
		{"notes.txt", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decode.FormatFromFilename(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, decode.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// =============================================================================
// CSV
// =============================================================================

func TestDecodeCSV(t *testing.T) {
	data := "Ngày GD,Mã CK,Loại GD,Khối lượng,Giá\n" +
		"05/03/2024, VNM ,Mua,10,\"1,000\"\n" +
		"\n" +
		",,,,\n" +
		"06/03/2024,FPT,Bán,5\n"

	rows, err := decode.DecodeCSV([]byte(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "VNM", rows[0]["Mã CK"].String())
	assert.Equal(t, "1,000", rows[0]["Giá"].String())
	assert.Equal(t, "Bán", rows[1]["Loại GD"].String())
	assert.True(t, rows[1]["Giá"].IsEmpty())
}

func TestDecodeCSV_StripsUTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Symbol,Price\nVNM,1\n")...)

	rows, err := decode.DecodeCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "VNM", rows[0]["Symbol"].String())
}

func TestDecodeCSV_UTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte("Mã CK,Giá\nVNM,1000\n"))
	require.NoError(t, err)

	rows, err := decode.DecodeCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "VNM", rows[0]["Mã CK"].String())
	assert.Equal(t, "1000", rows[0]["Giá"].String())
}

func TestDecodeCSV_Windows1258(t *testing.T) {
	// 0xDE is a combining tilde and 0xE1 is á in Windows-1258
	data := []byte("Ma\xde CK,Gi\xe1\nVNM,1000\n")

	rows, err := decode.DecodeCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "VNM", rows[0]["Mã CK"].String())
	assert.Equal(t, "1000", rows[0]["Giá"].String())
}

func TestDecodeCSV_Empty(t *testing.T) {
	_, err := decode.DecodeCSV(nil)
	assert.ErrorIs(t, err, decode.ErrNoHeader)

	_, err = decode.DecodeCSV([]byte("Symbol,Price\n\n"))
	assert.ErrorIs(t, err, decode.ErrNoData)
}

func TestToUTF8_Names(t *testing.T) {
	_, name, err := decode.ToUTF8([]byte("plain"))
	require.NoError(t, err)
	assert.Equal(t, "utf-8", name)

	_, name, err = decode.ToUTF8([]byte{0xFE, 0xFF, 0x00, 0x41})
	require.NoError(t, err)
	assert.Equal(t, "utf-16be", name)

	_, name, err = decode.ToUTF8([]byte{0xE1, 0x41})
	require.NoError(t, err)
	assert.Equal(t, "windows-1258", name)
}

// =============================================================================
// XLSX
// =============================================================================

func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDecodeXLSX(t *testing.T) {
	data := workbook(t, [][]any{
		{"Trade Date", "Symbol", "Type", "Volume", "Price"},
		{"2024-03-05", "VNM", "BUY", 10, 1000},
		{},
		{"2024-03-06", "FPT", "SELL", 5},
	})

	rows, err := decode.DecodeXLSX(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "VNM", rows[0]["Symbol"].String())
	assert.Equal(t, "10", rows[0]["Volume"].String())
	assert.Equal(t, "1000", rows[0]["Price"].String())
	assert.True(t, rows[1]["Price"].IsEmpty())
}

func TestDecodeXLSX_HeaderOnly(t *testing.T) {
	data := workbook(t, [][]any{{"Symbol", "Price"}})

	_, err := decode.DecodeXLSX(bytes.NewReader(data))
	assert.ErrorIs(t, err, decode.ErrNoData)
}

func TestDecodeXLSX_NotAWorkbook(t *testing.T) {
	_, err := decode.DecodeXLSX(strings.NewReader("not a zip"))
	require.Error(t, err)
	assert.ErrorIs(t, err, decode.ErrMalformed)
	assert.False(t, errors.Is(err, decode.ErrNoData))
}

func TestDecode_ByExtension(t *testing.T) {
	rows, err := decode.Decode("trades.csv", strings.NewReader("Symbol,Price\nVNM,1\n"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = decode.Decode("trades.xlsx", bytes.NewReader(workbook(t, [][]any{{"Symbol"}, {"VNM"}})))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = decode.Decode("trades.pdf", strings.NewReader(""))
	assert.ErrorIs(t, err, decode.ErrUnsupportedFormat)
}
