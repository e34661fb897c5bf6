package ingest

import (
	"sort"

	"github.com/kislikjeka/tradebook/internal/trade"
)

// ApplyBalances returns a copy of txs stably sorted by trade date, each
// annotated with the per-symbol running position after it and the sign of
// that position. BUY adds volume, SELL subtracts it. Every call starts from
// zero, so balances are scoped to the given batch and re-applying to the
// output does not change it.
func ApplyBalances(txs []trade.Transaction) []trade.Transaction {
	out := make([]trade.Transaction, len(txs))
	copy(out, txs)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TradeDate < out[j].TradeDate
	})

	balances := make(map[string]int64)
	for i := range out {
		tx := &out[i]
		balances[tx.Symbol] += tx.Type.Sign() * tx.Volume
		tx.RunningBalance = balances[tx.Symbol]
		tx.BalanceStatus = trade.StatusFor(tx.RunningBalance)
	}

	return out
}
