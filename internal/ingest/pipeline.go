package ingest

import (
	"github.com/kislikjeka/tradebook/internal/trade"
	"github.com/kislikjeka/tradebook/pkg/logger"
)

// PreviewRow is one transaction as shown to the user before commit
type PreviewRow struct {
	RowIndex       int                 `json:"rowIndex"`
	Symbol         string              `json:"symbol"`
	TradeDate      string              `json:"tradeDate"`
	Type           trade.Side          `json:"type"`
	Price          float64             `json:"price"`
	Volume         int64               `json:"volume"`
	Fee            float64             `json:"fee"`
	Tax            float64             `json:"tax"`
	FeeRate        float64             `json:"feeRate"`
	TaxRate        float64             `json:"taxRate"`
	Validation     RowStatus           `json:"validation"`
	RunningBalance int64               `json:"runningBalance"`
	BalanceStatus  trade.BalanceStatus `json:"balanceStatus"`
}

// Preview is the result of ingesting one batch
type Preview struct {
	Rows     []PreviewRow `json:"rows"`
	Warnings []Warning    `json:"warnings"`
}

// Pipeline runs normalize -> date -> derive over every row, then balances
// the whole batch
type Pipeline struct {
	normalizer *Normalizer
	deriver    *Deriver
	logger     *logger.Logger
}

// NewPipeline creates an ingestion pipeline
func NewPipeline(normalizer *Normalizer, deriver *Deriver, log *logger.Logger) *Pipeline {
	return &Pipeline{
		normalizer: normalizer,
		deriver:    deriver,
		logger:     log.WithField("component", "ingest"),
	}
}

// Ingest processes a decoded row set for userID. The first row that fails
// aborts the batch with a *RowProcessingError; no partial preview is returned.
// Preview rows are date-sorted and RowIndex is their 1-based position after
// sorting.
func (p *Pipeline) Ingest(rows []RawRow, userID string) (*Preview, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	txs := make([]trade.Transaction, 0, len(rows))
	for i, row := range rows {
		tx, err := p.processRow(row, userID)
		if err != nil {
			p.logger.Debug("row rejected", "row", i+1, "error", err)
			return nil, &RowProcessingError{RowIndex: i + 1, Err: err}
		}
		txs = append(txs, tx)
	}

	balanced := ApplyBalances(txs)

	preview := &Preview{Rows: make([]PreviewRow, len(balanced))}
	for i, tx := range balanced {
		preview.Rows[i] = PreviewRow{
			RowIndex:       i + 1,
			Symbol:         tx.Symbol,
			TradeDate:      tx.TradeDate,
			Type:           tx.Type,
			Price:          tx.Price,
			Volume:         tx.Volume,
			Fee:            tx.Fee,
			Tax:            tx.Tax,
			FeeRate:        tx.FeeRate,
			TaxRate:        tx.TaxRate,
			Validation:     Classify(tx),
			RunningBalance: tx.RunningBalance,
			BalanceStatus:  tx.BalanceStatus,
		}
	}
	preview.Warnings = NegativeBalanceWarnings(preview.Rows)

	p.logger.Debug("batch ingested",
		"rows", len(preview.Rows),
		"warnings", len(preview.Warnings),
	)

	return preview, nil
}

func (p *Pipeline) processRow(row RawRow, userID string) (trade.Transaction, error) {
	canonical, err := p.normalizer.Normalize(row)
	if err != nil {
		return trade.Transaction{}, err
	}

	date, err := ParseDate(canonical.TradeDate)
	if err != nil {
		return trade.Transaction{}, err
	}
	canonical.TradeDate = date

	return p.deriver.Derive(canonical, userID)
}
