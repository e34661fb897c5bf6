package trade

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DecodeSubmission decodes one raw row of a commit request. Numeric fields
// accept a JSON number or a numeric string. Type mismatches never fail the
// call; they are kept on the submission and reported by Gate.Validate, so a
// single bad row cannot reject the rest of the batch.
func DecodeSubmission(data []byte) Submission {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return Submission{decodeErrs: []FieldError{{
			Field:   "value",
			Message: `"value" must be of type object`,
		}}}
	}

	var sub Submission
	str := func(key string, dst *string) {
		raw, ok := fields[key]
		if !ok || isNull(raw) {
			return
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			sub.decodeErrs = append(sub.decodeErrs, FieldError{
				Field:   key,
				Message: fmt.Sprintf(`"%s" must be a string`, key),
			})
		}
	}
	num := func(key string, dst **float64) {
		raw, ok := fields[key]
		if !ok || isNull(raw) {
			return
		}
		v, ok := parseNumber(raw)
		if !ok {
			sub.decodeErrs = append(sub.decodeErrs, FieldError{
				Field:   key,
				Message: fmt.Sprintf(`"%s" must be a number`, key),
			})
			return
		}
		*dst = &v
	}

	str("userId", &sub.UserID)
	str("symbol", &sub.Symbol)
	str("tradeDate", &sub.TradeDate)
	str("type", &sub.Type)
	num("price", &sub.Price)
	num("volume", &sub.Volume)
	num("fee", &sub.Fee)
	num("tax", &sub.Tax)
	num("feeRate", &sub.FeeRate)
	num("taxRate", &sub.TaxRate)

	return sub
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
