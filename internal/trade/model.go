package trade

import (
	"time"
)

// Side is the direction of a trade
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// IsValid reports whether the side is BUY or SELL
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// Sign returns +1 for BUY, -1 for SELL and 0 for anything else
func (s Side) Sign() int64 {
	switch s {
	case SideBuy:
		return 1
	case SideSell:
		return -1
	default:
		return 0
	}
}

// BalanceStatus classifies the sign of a running balance
type BalanceStatus string

const (
	BalancePositive BalanceStatus = "positive"
	BalanceNegative BalanceStatus = "negative"
)

// StatusFor returns negative iff balance < 0
func StatusFor(balance int64) BalanceStatus {
	if balance < 0 {
		return BalanceNegative
	}
	return BalancePositive
}

// Transaction is a single broker trade in canonical form.
//
// RunningBalance and BalanceStatus are derived relative to the batch the
// transaction was previewed in and are never read back from storage.
// ID is assigned at commit time only.
type Transaction struct {
	ID             string        `json:"id,omitempty"`
	UserID         string        `json:"userId"`
	Symbol         string        `json:"symbol"`
	TradeDate      string        `json:"tradeDate"`
	Type           Side          `json:"type"`
	Price          float64       `json:"price"`
	Volume         int64         `json:"volume"`
	Fee            float64       `json:"fee"`
	Tax            float64       `json:"tax"`
	FeeRate        float64       `json:"feeRate"`
	TaxRate        float64       `json:"taxRate"`
	RunningBalance int64         `json:"runningBalance"`
	BalanceStatus  BalanceStatus `json:"balanceStatus,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// Submission is a transaction as it arrives on a commit request, before it
// has passed the validation gate. Numeric fields are pointers so that a
// missing field can be told apart from zero.
type Submission struct {
	UserID    string   `json:"userId"`
	Symbol    string   `json:"symbol"`
	TradeDate string   `json:"tradeDate"`
	Type      string   `json:"type"`
	Price     *float64 `json:"price"`
	Volume    *float64 `json:"volume"`
	Fee       *float64 `json:"fee"`
	Tax       *float64 `json:"tax"`
	FeeRate   *float64 `json:"feeRate"`
	TaxRate   *float64 `json:"taxRate"`

	// decodeErrs holds the field errors found while decoding the raw row
	decodeErrs []FieldError
}

// CommitOptions carries per-request commit flags
type CommitOptions struct {
	// IgnoreNegativeBalances is accepted from clients but currently has no
	// effect on which rows are committed.
	IgnoreNegativeBalances bool
}

// CommitError reports why a single submitted row was not committed.
// Index is 0-based into the submitted list.
type CommitError struct {
	Index  int    `json:"index"`
	Error  string `json:"error"`
	Symbol string `json:"symbol"`
}

// CommitResult is the outcome of a partial-success commit
type CommitResult struct {
	Success   int           `json:"success"`
	Errors    []CommitError `json:"errors"`
	Committed []Transaction `json:"-"`
}
