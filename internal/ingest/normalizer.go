package ingest

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/kislikjeka/tradebook/pkg/money"
)

// Vietnamese side labels, uppercased
const (
	sideBuyVI  = "MUA"
	sideSellVI = "BÁN"
)

// Normalizer maps raw header-keyed rows to CanonicalRow
type Normalizer struct {
	aliases AliasTable
}

// NewNormalizer creates a normalizer over the given alias table
func NewNormalizer(aliases AliasTable) *Normalizer {
	return &Normalizer{aliases: aliases}
}

// Normalize resolves header aliases, canonicalises the side label and strips
// thousands separators from a text price. The input row is not modified.
//
// When two headers resolve to the same key, a non-empty value beats an empty
// one; otherwise the header that sorts first wins.
func (n *Normalizer) Normalize(row RawRow) (CanonicalRow, error) {
	headers := make([]string, 0, len(row))
	for h := range row {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	fields := make(map[string]Value, len(row))
	for _, h := range headers {
		key, ok := n.aliases.Resolve(h)
		if !ok {
			key = h
		}
		v := row[h]
		if prev, seen := fields[key]; seen && (!prev.IsEmpty() || v.IsEmpty()) {
			continue
		}
		fields[key] = v
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, ok := fields[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return CanonicalRow{}, &NormalizationError{Missing: missing}
	}

	out := CanonicalRow{
		Symbol:    strings.TrimSpace(fields[KeySymbol].String()),
		TradeDate: fields[KeyTradeDate].String(),
		Type:      CanonicalSide(fields[KeyType].String()),
		Price:     fields[KeyPrice],
		Volume:    fields[KeyVolume],
		FeeRate:   fields[KeyFeeRate],
		TaxRate:   fields[KeyTaxRate],
		Extras:    make(map[string]Value),
	}
	if !out.Price.IsNumber() {
		out.Price = Text(money.StripThousands(out.Price.String()))
	}

	for key, v := range fields {
		switch key {
		case KeySymbol, KeyTradeDate, KeyType, KeyPrice, KeyVolume, KeyFeeRate, KeyTaxRate:
		default:
			out.Extras[key] = v
		}
	}

	return out, nil
}

// CanonicalSide uppercases a side label and maps Vietnamese synonyms to
// BUY/SELL. Unknown labels are returned uppercased.
func CanonicalSide(s string) string {
	upper := strings.ToUpper(norm.NFC.String(strings.TrimSpace(s)))
	switch upper {
	case sideBuyVI:
		return "BUY"
	case sideSellVI:
		return "SELL"
	default:
		return upper
	}
}
