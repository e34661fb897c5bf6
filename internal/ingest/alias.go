package ingest

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// defaultAliases maps broker header spellings to canonical keys
var defaultAliases = map[string]string{
	// Vietnamese
	"Ngày giao dịch": KeyTradeDate,
	"Mã CK":          KeySymbol,
	"Loại giao dịch": KeyType,
	"Khối lượng":     KeyVolume,
	"Giá thực hiện":  KeyPrice,
	"Phí thực hiện":  KeyFee,
	"Thuế bán":       KeyTax,
	"Ngày GD":        KeyTradeDate,
	"Loại GD":        KeyType,
	"Giá":            KeyPrice,

	// English
	"Trade Date": KeyTradeDate,
	"Symbol":     KeySymbol,
	"Type":       KeyType,
	"Volume":     KeyVolume,
	"Price":      KeyPrice,
	"Fee Rate":   KeyFeeRate,
	"Tax Rate":   KeyTaxRate,
}

// AliasTable is an immutable header -> canonical key mapping
type AliasTable struct {
	m map[string]string
}

// NewAliasTable builds a table from the given mapping. The input map is
// copied, so later changes to it do not affect the table.
func NewAliasTable(aliases map[string]string) AliasTable {
	m := make(map[string]string, len(aliases))
	for header, key := range aliases {
		m[foldHeader(header)] = key
	}
	return AliasTable{m: m}
}

// DefaultAliases returns the built-in Vietnamese and English header table
func DefaultAliases() AliasTable {
	return NewAliasTable(defaultAliases)
}

// With returns a new table with extra merged over t
func (t AliasTable) With(extra map[string]string) AliasTable {
	m := make(map[string]string, len(t.m)+len(extra))
	for k, v := range t.m {
		m[k] = v
	}
	for header, key := range extra {
		m[foldHeader(header)] = key
	}
	return AliasTable{m: m}
}

// Resolve returns the canonical key for a header label
func (t AliasTable) Resolve(header string) (string, bool) {
	key, ok := t.m[foldHeader(header)]
	return key, ok
}

// Len returns the number of known header spellings
func (t AliasTable) Len() int {
	return len(t.m)
}

// foldHeader trims and NFC-normalises a header so that spreadsheets saved
// with decomposed Vietnamese diacritics still match.
func foldHeader(h string) string {
	return norm.NFC.String(strings.TrimSpace(h))
}
