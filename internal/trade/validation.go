package trade

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"
)

const (
	// MaxSymbolLength is the longest accepted instrument code
	MaxSymbolLength = 10

	// maxVolumeExclusive is 2^63, the first float64 that overflows int64
	maxVolumeExclusive = float64(1 << 63)
)

// Canonical trade date: YYYY-MM-DD
var tradeDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Gate schema-checks transactions before commit. It has no side effects and
// is safe for concurrent use.
type Gate struct{}

// NewGate creates a validation gate
func NewGate() *Gate {
	return &Gate{}
}

// Validate checks every field of s and returns the typed transaction, or a
// *ValidationError listing all violations found.
func (g *Gate) Validate(s Submission) (Transaction, error) {
	if len(s.decodeErrs) > 0 {
		return Transaction{}, &ValidationError{Details: s.decodeErrs}
	}

	var details []FieldError
	add := func(field, format string, args ...any) {
		details = append(details, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if s.UserID == "" {
		add("userId", `"userId" is required`)
	}

	switch n := utf8.RuneCountInString(s.Symbol); {
	case n == 0:
		add("symbol", `"symbol" is required`)
	case n > MaxSymbolLength:
		add("symbol", `"symbol" length must be less than or equal to %d characters long`, MaxSymbolLength)
	}

	switch {
	case s.TradeDate == "":
		add("tradeDate", `"tradeDate" is required`)
	case !tradeDateRegex.MatchString(s.TradeDate):
		add("tradeDate", `"tradeDate" with value %q fails to match the required pattern: YYYY-MM-DD`, s.TradeDate)
	default:
		if _, err := time.Parse(time.DateOnly, s.TradeDate); err != nil {
			add("tradeDate", `"tradeDate" must be a valid date`)
		}
	}

	switch {
	case s.Type == "":
		add("type", `"type" is required`)
	case !Side(s.Type).IsValid():
		add("type", `"type" must be one of [BUY, SELL]`)
	}

	checkMin := func(field string, v *float64, min float64) {
		if v == nil {
			add(field, `"%s" is required`, field)
			return
		}
		if math.IsNaN(*v) || *v < min {
			add(field, `"%s" must be greater than or equal to %s`, field, formatNumber(min))
		}
	}

	checkMin("price", s.Price, 0)

	if s.Volume == nil {
		add("volume", `"volume" is required`)
	} else {
		if *s.Volume != math.Trunc(*s.Volume) {
			add("volume", `"volume" must be an integer`)
		}
		if *s.Volume < 1 {
			add("volume", `"volume" must be greater than or equal to 1`)
		}
		if *s.Volume >= maxVolumeExclusive {
			add("volume", `"volume" must be less than or equal to %d`, int64(math.MaxInt64))
		}
	}

	checkMin("fee", s.Fee, 0)
	checkMin("tax", s.Tax, 0)
	checkMin("feeRate", s.FeeRate, 0)
	checkMin("taxRate", s.TaxRate, 0)

	if len(details) > 0 {
		return Transaction{}, &ValidationError{Details: details}
	}

	return Transaction{
		UserID:    s.UserID,
		Symbol:    s.Symbol,
		TradeDate: s.TradeDate,
		Type:      Side(s.Type),
		Price:     *s.Price,
		Volume:    int64(*s.Volume),
		Fee:       *s.Fee,
		Tax:       *s.Tax,
		FeeRate:   *s.FeeRate,
		TaxRate:   *s.TaxRate,
	}, nil
}

// BatchResult partitions a batch by the gate. Keys are 0-based positions in
// the submitted list; every position is in exactly one of the two maps.
type BatchResult struct {
	Valid      map[int]Transaction
	Violations map[int][]FieldError
}

// ValidateBatch validates each submission independently.
func (g *Gate) ValidateBatch(subs []Submission) BatchResult {
	result := BatchResult{
		Valid:      make(map[int]Transaction, len(subs)),
		Violations: make(map[int][]FieldError),
	}
	for i, s := range subs {
		tx, err := g.Validate(s)
		var verr *ValidationError
		if errors.As(err, &verr) {
			result.Violations[i] = verr.Details
			continue
		}
		result.Valid[i] = tx
	}
	return result
}

// CheckBusinessRules applies the commit-time rules that hold even for a
// schema-valid transaction. Only the first broken rule is reported.
func CheckBusinessRules(tx Transaction) error {
	if tx.Price <= 0 {
		return &BusinessRuleError{
			Rule:    "price",
			Message: fmt.Sprintf("Giá giao dịch phải lớn hơn 0 (giá hiện tại: %s)", formatNumber(tx.Price)),
		}
	}
	if tx.Volume <= 0 {
		return &BusinessRuleError{
			Rule:    "volume",
			Message: fmt.Sprintf("Khối lượng phải lớn hơn 0 (khối lượng hiện tại: %d)", tx.Volume),
		}
	}
	if !tx.Type.IsValid() {
		return &BusinessRuleError{
			Rule:    "type",
			Message: fmt.Sprintf("Loại giao dịch không hợp lệ: %s", tx.Type),
		}
	}
	return nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
