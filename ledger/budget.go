package ledger

import (
	"time"

	"budgetown/models"

	"github.com/shopspring/decimal"
)

// 预算状态常量
const (
	BudgetStatusOK       = "ok"       // 使用率 < 80%
	BudgetStatusWarning  = "warning"  // 使用率 >= 80%
	BudgetStatusExceeded = "exceeded" // 使用率 >= 100%
)

// BudgetStatus 某类别某月的预算执行情况
type BudgetStatus struct {
	CategoryID string          `json:"category_id"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"` // 超支时为负
	Percentage float64         `json:"percentage"`
	Status     string          `json:"status"` // ok / warning / exceeded
}

// InMonth 日期是否落在指定自然月内（month 为 1-12）
func InMonth(date time.Time, month time.Month, year int) bool {
	return date.Month() == month && date.Year() == year
}

// CategorySpent 统计某类别在指定自然月内的支出总额
// 只统计支出类型交易，收入不参与预算
func CategorySpent(txs []models.Transaction, categoryID string, month time.Month, year int) decimal.Decimal {
	spent := decimal.Zero
	for i := range txs {
		tx := &txs[i]
		if tx.Type != models.TypeExpense {
			continue
		}
		if tx.CategoryID != categoryID {
			continue
		}
		if !InMonth(tx.Date, month, year) {
			continue
		}
		spent = spent.Add(tx.Amount)
	}
	return spent
}

// EvaluateBudget 比较支出与预算上限，给出状态分类
// 边界值归入更严重一档：80% 即 warning，100% 即 exceeded
func EvaluateBudget(categoryID string, limit, spent decimal.Decimal) BudgetStatus {
	status := BudgetStatus{
		CategoryID: categoryID,
		Limit:      limit,
		Spent:      spent,
		Remaining:  limit.Sub(spent),
	}
	if limit.IsPositive() {
		status.Percentage, _ = spent.Div(limit).Mul(decimal.NewFromInt(100)).Float64()
	}
	switch {
	case status.Percentage >= 100:
		status.Status = BudgetStatusExceeded
	case status.Percentage >= 80:
		status.Status = BudgetStatusWarning
	default:
		status.Status = BudgetStatusOK
	}
	return status
}

// ActiveBudgets 计算指定月份所有"活跃"类别的预算执行情况
// 仅保留设置了预算上限或当月有支出的类别（两者都为零的不展示）
// 顺序与支出类别注册表一致
func ActiveBudgets(budgets []models.Budget, txs []models.Transaction, month time.Month, year int) []BudgetStatus {
	limits := make(map[string]decimal.Decimal, len(budgets))
	for i := range budgets {
		limits[budgets[i].CategoryID] = budgets[i].MonthlyLimit
	}

	var result []BudgetStatus
	for _, cat := range models.ExpenseCategories {
		limit := limits[cat.ID]
		spent := CategorySpent(txs, cat.ID, month, year)
		if limit.IsZero() && spent.IsZero() {
			continue
		}
		result = append(result, EvaluateBudget(cat.ID, limit, spent))
	}
	return result
}
