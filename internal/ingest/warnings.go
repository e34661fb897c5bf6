package ingest

import "github.com/kislikjeka/tradebook/internal/trade"

// NegativeBalanceSuggestion is shown next to every negative-balance warning
const NegativeBalanceSuggestion = "Kiểm tra lại khối lượng hoặc thêm giao dịch Mua trước đó."

// Warning flags a preview row whose running balance went below zero.
// Warnings are advisory and never block a commit.
type Warning struct {
	RowIndex   int        `json:"rowIndex"`
	Symbol     string     `json:"symbol"`
	TradeDate  string     `json:"tradeDate"`
	Type       trade.Side `json:"type"`
	Volume     int64      `json:"volume"`
	Balance    int64      `json:"balance"`
	Suggestion string     `json:"suggestion"`
}

// NegativeBalanceWarnings returns one warning per negative row, in row order
func NegativeBalanceWarnings(rows []PreviewRow) []Warning {
	warnings := []Warning{}
	for _, r := range rows {
		if r.BalanceStatus != trade.BalanceNegative {
			continue
		}
		warnings = append(warnings, Warning{
			RowIndex:   r.RowIndex,
			Symbol:     r.Symbol,
			TradeDate:  r.TradeDate,
			Type:       r.Type,
			Volume:     r.Volume,
			Balance:    r.RunningBalance,
			Suggestion: NegativeBalanceSuggestion,
		})
	}
	return warnings
}
