package api

import (
	"strconv"
	"time"

	"budgetown/database"
	"budgetown/ledger"
	"budgetown/middleware"
	"budgetown/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// MonthlySummary 月度收支概览
type MonthlySummary struct {
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
	Net          decimal.Decimal `json:"net"`
	TotalBalance decimal.Decimal `json:"total_balance"`
}

// parseMonthsBack 解析回溯月数，缺省 6，范围 1-36
func parseMonthsBack(c *gin.Context) int {
	months, err := strconv.Atoi(c.DefaultQuery("months", "6"))
	if err != nil || months < 1 || months > 36 {
		return 6
	}
	return months
}

// GetSummary 获取月度收支概览
// @Summary 获取月度概览
// @Description 返回指定月份的收入、支出、结余及当前总余额
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param month query int false "月份 1-12，默认当前月"
// @Param year query int false "年份，默认当前年"
// @Success 200 {object} Response{data=MonthlySummary} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/analytics/summary [get]
func GetSummary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	month, year, ok := parseMonthYear(c)
	if !ok {
		BadRequest(c, "无效的月份或年份")
		return
	}

	store := ledger.NewStore(database.DB)
	wallets, err := store.ListWallets(userID)
	if err != nil {
		LedgerError(c, err, "获取钱包失败")
		return
	}
	txs, err := store.ListTransactions(userID, ledger.TxFilter{})
	if err != nil {
		LedgerError(c, err, "获取交易记录失败")
		return
	}

	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range txs {
		if !ledger.InMonth(tx.Date, month, year) {
			continue
		}
		if tx.Type == models.TypeIncome {
			income = income.Add(tx.Amount)
		} else {
			expense = expense.Add(tx.Amount)
		}
	}

	Success(c, MonthlySummary{
		Month:        int(month),
		Year:         year,
		Income:       income,
		Expense:      expense,
		Net:          income.Sub(expense),
		TotalBalance: ledger.AggregateBalance(wallets, txs),
	})
}

// GetMonthlySeries 获取月度收支趋势
// @Summary 获取月度收支趋势
// @Description 返回最近 N 个月每月的收入与支出，从最早的月份开始
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param months query int false "回溯月数，默认6"
// @Success 200 {object} Response{data=[]ledger.MonthPoint} "获取成功"
// @Router /api/v1/analytics/monthly-series [get]
func GetMonthlySeries(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	months := parseMonthsBack(c)

	store := ledger.NewStore(database.DB)
	txs, err := store.ListTransactions(userID, ledger.TxFilter{})
	if err != nil {
		LedgerError(c, err, "获取交易记录失败")
		return
	}

	Success(c, ledger.MonthlySeries(txs, months, time.Now()))
}

// GetBalanceTrend 获取余额走势
// @Summary 获取余额走势
// @Description 返回最近 N 个月每月末的累计总余额
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param months query int false "回溯月数，默认6"
// @Success 200 {object} Response{data=[]ledger.BalancePoint} "获取成功"
// @Router /api/v1/analytics/balance-trend [get]
func GetBalanceTrend(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	months := parseMonthsBack(c)

	store := ledger.NewStore(database.DB)
	wallets, err := store.ListWallets(userID)
	if err != nil {
		LedgerError(c, err, "获取钱包失败")
		return
	}
	txs, err := store.ListTransactions(userID, ledger.TxFilter{})
	if err != nil {
		LedgerError(c, err, "获取交易记录失败")
		return
	}

	Success(c, ledger.BalanceTrend(wallets, txs, months, time.Now()))
}

// GetCategoryBreakdown 获取类别支出占比
// @Summary 获取类别支出占比
// @Description 返回指定月份各支出类别的金额，按金额从大到小排序
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param month query int false "月份 1-12，默认当前月"
// @Param year query int false "年份，默认当前年"
// @Success 200 {object} Response{data=[]ledger.CategoryValue} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/analytics/category-breakdown [get]
func GetCategoryBreakdown(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	month, year, ok := parseMonthYear(c)
	if !ok {
		BadRequest(c, "无效的月份或年份")
		return
	}

	store := ledger.NewStore(database.DB)
	txs, err := store.ListTransactions(userID, ledger.TxFilter{Type: models.TypeExpense})
	if err != nil {
		LedgerError(c, err, "获取交易记录失败")
		return
	}

	Success(c, ledger.CategoryBreakdown(txs, month, year))
}
