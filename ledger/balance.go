package ledger

import (
	"budgetown/models"

	"github.com/shopspring/decimal"
)

// WalletBalanceItem 钱包及其当前余额
type WalletBalanceItem struct {
	Wallet         models.Wallet   `json:"wallet"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// WalletBalance 计算单个钱包的当前余额
// 起始余额加上归属于该钱包的交易带符号金额之和，未归属交易不参与
func WalletBalance(wallet models.Wallet, txs []models.Transaction) decimal.Decimal {
	balance := wallet.BaseBalance
	for i := range txs {
		tx := &txs[i]
		if tx.WalletID != nil && *tx.WalletID == wallet.ID {
			balance = balance.Add(tx.SignedAmount())
		}
	}
	return balance
}

// AggregateBalance 计算所有钱包的总余额
// 各钱包余额之和，再加上未归属交易（钱包引用缺失或已失效）的带符号金额，
// 保证钱包被删后其交易金额不会从总额中凭空消失
func AggregateBalance(wallets []models.Wallet, txs []models.Transaction) decimal.Decimal {
	// 等价于 Σ钱包余额 + Σ未归属交易：每笔交易恰好计入一次
	total := decimal.Zero
	for i := range wallets {
		total = total.Add(wallets[i].BaseBalance)
	}
	for i := range txs {
		total = total.Add(txs[i].SignedAmount())
	}
	return total
}

// AllWalletBalances 批量计算每个钱包的当前余额
// 与逐个调用 WalletBalance 的结果一致
func AllWalletBalances(wallets []models.Wallet, txs []models.Transaction) []WalletBalanceItem {
	items := make([]WalletBalanceItem, 0, len(wallets))
	for i := range wallets {
		items = append(items, WalletBalanceItem{
			Wallet:         wallets[i],
			CurrentBalance: WalletBalance(wallets[i], txs),
		})
	}
	return items
}

// UnattributedTotal 未归属交易的带符号金额之和
func UnattributedTotal(wallets []models.Wallet, txs []models.Transaction) decimal.Decimal {
	known := make(map[uint]struct{}, len(wallets))
	for i := range wallets {
		known[wallets[i].ID] = struct{}{}
	}
	total := decimal.Zero
	for i := range txs {
		tx := &txs[i]
		if tx.WalletID == nil {
			total = total.Add(tx.SignedAmount())
			continue
		}
		if _, ok := known[*tx.WalletID]; !ok {
			total = total.Add(tx.SignedAmount())
		}
	}
	return total
}
