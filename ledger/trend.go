package ledger

import (
	"sort"
	"time"

	"budgetown/models"

	"github.com/shopspring/decimal"
)

// MonthPoint 某月的收支汇总
type MonthPoint struct {
	Label   string          `json:"label"` // 形如 2024-06
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// BalancePoint 某月末的累计总余额
type BalancePoint struct {
	Label   string          `json:"label"`
	Balance decimal.Decimal `json:"balance"`
}

// CategoryValue 类别金额，用于占比展示
type CategoryValue struct {
	CategoryID string          `json:"category_id"`
	Value      decimal.Decimal `json:"value"`
}

const monthLabelLayout = "2006-01"

// monthStart 返回 now 往前偏移 back 个月的月初
func monthStart(now time.Time, back int) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -back, 0)
}

// MonthlySeries 生成截至当前月（含）的近 monthsBack 个月收支序列
// 按时间从旧到新排列；没有交易的月份收支均为零
func MonthlySeries(txs []models.Transaction, monthsBack int, now time.Time) []MonthPoint {
	if monthsBack <= 0 {
		return []MonthPoint{}
	}
	points := make([]MonthPoint, 0, monthsBack)
	for back := monthsBack - 1; back >= 0; back-- {
		start := monthStart(now, back)
		point := MonthPoint{
			Label:   start.Format(monthLabelLayout),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		for i := range txs {
			tx := &txs[i]
			if !InMonth(tx.Date, start.Month(), start.Year()) {
				continue
			}
			if tx.Type == models.TypeIncome {
				point.Income = point.Income.Add(tx.Amount)
			} else {
				point.Expense = point.Expense.Add(tx.Amount)
			}
		}
		points = append(points, point)
	}
	return points
}

// BalanceTrend 生成近 monthsBack 个月每月末的累计总余额序列
// 每个点包含该月末（含）之前的全部交易，是累计值而非当月增量
func BalanceTrend(wallets []models.Wallet, txs []models.Transaction, monthsBack int, now time.Time) []BalancePoint {
	if monthsBack <= 0 {
		return []BalancePoint{}
	}
	base := decimal.Zero
	for i := range wallets {
		base = base.Add(wallets[i].BaseBalance)
	}

	points := make([]BalancePoint, 0, monthsBack)
	for back := monthsBack - 1; back >= 0; back-- {
		start := monthStart(now, back)
		endOfMonth := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

		balance := base
		for i := range txs {
			if !txs[i].Date.After(endOfMonth) {
				balance = balance.Add(txs[i].SignedAmount())
			}
		}
		points = append(points, BalancePoint{
			Label:   start.Format(monthLabelLayout),
			Balance: balance,
		})
	}
	return points
}

// CategoryBreakdown 统计指定自然月各支出类别的金额，按金额从大到小排列
func CategoryBreakdown(txs []models.Transaction, month time.Month, year int) []CategoryValue {
	totals := make(map[string]decimal.Decimal)
	for i := range txs {
		tx := &txs[i]
		if tx.Type != models.TypeExpense {
			continue
		}
		if !InMonth(tx.Date, month, year) {
			continue
		}
		totals[tx.CategoryID] = totals[tx.CategoryID].Add(tx.Amount)
	}

	result := make([]CategoryValue, 0, len(totals))
	for id, value := range totals {
		result = append(result, CategoryValue{CategoryID: id, Value: value})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Value.Equal(result[j].Value) {
			return result[i].Value.GreaterThan(result[j].Value)
		}
		return result[i].CategoryID < result[j].CategoryID
	})
	return result
}
