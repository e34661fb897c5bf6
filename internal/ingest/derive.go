package ingest

import (
	"math"

	"github.com/kislikjeka/tradebook/internal/trade"
	"github.com/kislikjeka/tradebook/pkg/money"
)

// Default fee and tax rates, as fractions of notional
const (
	DefaultFeeRate = 0.0005
	DefaultTaxRate = 0.001
)

// maxVolume is 2^63; numeric volumes must fit in an int64
const maxVolume = float64(1 << 63)

// Rates are the fallback fee/tax rates used when a row carries none
type Rates struct {
	Fee float64
	Tax float64
}

// DefaultRates returns the built-in fallback rates
func DefaultRates() Rates {
	return Rates{Fee: DefaultFeeRate, Tax: DefaultTaxRate}
}

// RowStatus is the preview-time marker for a derived row
type RowStatus string

const (
	RowOK    RowStatus = "ok"
	RowError RowStatus = "error"
)

// Deriver turns canonical rows into priced transactions
type Deriver struct {
	defaults Rates
}

// NewDeriver creates a deriver with the given fallback rates
func NewDeriver(defaults Rates) *Deriver {
	return &Deriver{defaults: defaults}
}

// Derive parses price and volume, resolves the rates and computes fee and tax.
// row.TradeDate is expected to be canonical already.
func (d *Deriver) Derive(row CanonicalRow, userID string) (trade.Transaction, error) {
	price, err := parsePrice(row.Price)
	if err != nil {
		return trade.Transaction{}, err
	}

	volume, err := parseVolume(row.Volume)
	if err != nil {
		return trade.Transaction{}, err
	}

	feeRate := rateOrDefault(row.FeeRate, d.defaults.Fee)
	taxRate := rateOrDefault(row.TaxRate, d.defaults.Tax)

	return trade.Transaction{
		UserID:    userID,
		Symbol:    row.Symbol,
		TradeDate: row.TradeDate,
		Type:      trade.Side(row.Type),
		Price:     price,
		Volume:    volume,
		Fee:       money.Charge(price, volume, feeRate),
		Tax:       money.Charge(price, volume, taxRate),
		FeeRate:   feeRate,
		TaxRate:   taxRate,
	}, nil
}

// Classify marks a transaction ok when both price and volume are positive.
// It never stops processing.
func Classify(tx trade.Transaction) RowStatus {
	if tx.Price > 0 && tx.Volume > 0 {
		return RowOK
	}
	return RowError
}

func parsePrice(v Value) (float64, error) {
	if f, ok := v.Float(); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, &DerivationError{Field: KeyPrice, Value: v.String()}
		}
		return f, nil
	}

	d, err := money.ParseAmount(v.String())
	if err != nil {
		return 0, &DerivationError{Field: KeyPrice, Value: v.String()}
	}
	return d.InexactFloat64(), nil
}

func parseVolume(v Value) (int64, error) {
	if f, ok := v.Float(); ok {
		if math.IsNaN(f) || f >= maxVolume || f < -maxVolume {
			return 0, &DerivationError{Field: KeyVolume, Value: v.String()}
		}
		return int64(math.Trunc(f)), nil
	}

	q, err := money.ParseQuantity(v.String())
	if err != nil {
		return 0, &DerivationError{Field: KeyVolume, Value: v.String()}
	}
	return q, nil
}

// rateOrDefault returns the row's rate when it is present and numeric
func rateOrDefault(v Value, fallback float64) float64 {
	if f, ok := v.Float(); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fallback
		}
		return f
	}
	if v.IsEmpty() {
		return fallback
	}

	d, err := money.ParseAmount(v.String())
	if err != nil {
		return fallback
	}
	return d.InexactFloat64()
}
