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

// BudgetRequest 设置预算请求
type BudgetRequest struct {
	CategoryID   string          `json:"category_id" binding:"required" example:"food"`
	MonthlyLimit decimal.Decimal `json:"monthly_limit" example:"1000000"`
}

// parseMonthYear 从查询参数解析月份和年份，缺省为当前月
func parseMonthYear(c *gin.Context) (time.Month, int, bool) {
	now := time.Now()
	month := now.Month()
	year := now.Year()

	if raw := c.Query("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, false
		}
		month = time.Month(m)
	}
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 2000 || y > 2100 {
			return 0, 0, false
		}
		year = y
	}
	return month, year, true
}

// GetBudgets 获取预算执行情况
// @Summary 获取预算列表
// @Description 返回指定月份各类别的预算执行情况（限额、已花费、剩余、状态）
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param month query int false "月份 1-12，默认当前月"
// @Param year query int false "年份，默认当前年"
// @Success 200 {object} Response{data=[]ledger.BudgetStatus} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/budgets [get]
func GetBudgets(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	month, year, ok := parseMonthYear(c)
	if !ok {
		BadRequest(c, "无效的月份或年份")
		return
	}

	store := ledger.NewStore(database.DB)
	budgets, err := store.ListBudgets(userID)
	if err != nil {
		LedgerError(c, err, "获取预算失败")
		return
	}

	txs, err := store.ListTransactions(userID, ledger.TxFilter{Type: models.TypeExpense})
	if err != nil {
		LedgerError(c, err, "获取交易记录失败")
		return
	}

	Success(c, ledger.ActiveBudgets(budgets, txs, month, year))
}

// SetBudget 设置类别预算
// @Summary 设置预算
// @Description 为类别设置月度限额；限额为 0 表示删除预算，负数返回错误
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BudgetRequest true "预算信息"
// @Success 200 {object} Response{data=models.Budget} "设置成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/budgets [put]
func SetBudget(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	store := ledger.NewStore(database.DB)
	budget, err := store.SetBudget(userID, req.CategoryID, req.MonthlyLimit)
	if err != nil {
		LedgerError(c, err, "设置预算失败")
		return
	}

	if budget == nil {
		SuccessWithMessage(c, "预算已删除", nil)
		return
	}
	SuccessWithMessage(c, "设置成功", budget)
}
