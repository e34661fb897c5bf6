package ingest

import (
	"strconv"
	"strings"
)

// Value is a single decoded cell: either text or a number.
// The zero Value is an empty cell.
type Value struct {
	text  string
	num   float64
	isNum bool
}

// Text wraps a string cell
func Text(s string) Value {
	return Value{text: s}
}

// Number wraps a numeric cell
func Number(f float64) Value {
	return Value{num: f, isNum: true}
}

// IsNumber reports whether the cell was decoded as a number
func (v Value) IsNumber() bool {
	return v.isNum
}

// IsEmpty reports whether the cell carries nothing usable
func (v Value) IsEmpty() bool {
	return !v.isNum && strings.TrimSpace(v.text) == ""
}

// Float returns the numeric value and whether the cell is numeric
func (v Value) Float() (float64, bool) {
	return v.num, v.isNum
}

func (v Value) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.text
}

// RawRow is one decoded line keyed by its original, locale-dependent
// header label.
type RawRow map[string]Value

// Canonical keys
const (
	KeySymbol    = "symbol"
	KeyTradeDate = "tradeDate"
	KeyType      = "type"
	KeyPrice     = "price"
	KeyVolume    = "volume"
	KeyFeeRate   = "feeRate"
	KeyTaxRate   = "taxRate"
	KeyFee       = "fee"
	KeyTax       = "tax"
)

// requiredKeys in the order they are reported when missing
var requiredKeys = []string{KeyTradeDate, KeySymbol, KeyType, KeyVolume, KeyPrice}

// CanonicalRow is a RawRow after header aliasing. TradeDate is still the
// raw source text and Price may still be text.
type CanonicalRow struct {
	Symbol    string
	TradeDate string
	Type      string
	Price     Value
	Volume    Value
	FeeRate   Value
	TaxRate   Value

	// Extras holds every other column, keyed by its canonical name when
	// an alias exists and by the original header otherwise.
	Extras map[string]Value
}
