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

const dateLayout = "2006-01-02"

// TransactionRequest 创建交易请求
type TransactionRequest struct {
	Type        string          `json:"type" binding:"required,oneof=income expense" example:"expense"`
	Amount      decimal.Decimal `json:"amount" binding:"required" example:"45000"`
	CategoryID  string          `json:"category_id" binding:"required" example:"food"`
	WalletID    *uint           `json:"wallet_id" example:"1"`
	Date        string          `json:"date" binding:"required" example:"2024-06-15"`
	Description string          `json:"description" example:"午餐"`
	Source      string          `json:"source" example:"manual"`
}

// TransactionUpdateRequest 更新交易请求，仅更新携带的字段
type TransactionUpdateRequest struct {
	Type         *string          `json:"type" example:"expense"`
	Amount       *decimal.Decimal `json:"amount" example:"50000"`
	CategoryID   *string          `json:"category_id" example:"food"`
	WalletID     *uint            `json:"wallet_id" example:"1"`
	DetachWallet bool             `json:"detach_wallet" example:"false"`
	Date         *string          `json:"date" example:"2024-06-15"`
	Description  *string          `json:"description" example:"晚餐"`
}

// parseTxFilter 从查询参数构建交易过滤条件
func parseTxFilter(c *gin.Context) (ledger.TxFilter, error) {
	filter := ledger.TxFilter{
		Type:       c.Query("type"),
		CategoryID: c.Query("category_id"),
		Search:     c.Query("search"),
	}

	if raw := c.Query("wallet_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filter, err
		}
		walletID := uint(id)
		filter.WalletID = &walletID
	}

	if raw := c.Query("start_date"); raw != "" {
		from, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}

	if raw := c.Query("end_date"); raw != "" {
		to, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}

	return filter, nil
}

// GetTransactions 获取交易列表
// @Summary 获取交易列表
// @Description 按类型、类别、钱包、日期区间和关键词过滤，按日期倒序分页返回
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param type query string false "交易类型 income/expense"
// @Param category_id query string false "类别ID"
// @Param wallet_id query int false "钱包ID"
// @Param search query string false "搜索关键词（匹配描述和类别名）"
// @Param start_date query string false "起始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Param page query int false "页码，默认1"
// @Param page_size query int false "每页数量，默认20"
// @Success 200 {object} Response{data=PageResponse} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/transactions [get]
func GetTransactions(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	filter, err := parseTxFilter(c)
	if err != nil {
		BadRequest(c, "查询参数错误")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	store := ledger.NewStore(database.DB)
	txs, err := store.ListTransactions(userID, filter)
	if err != nil {
		LedgerError(c, err, "获取交易记录失败")
		return
	}

	total := int64(len(txs))
	start := (page - 1) * pageSize
	if start > len(txs) {
		start = len(txs)
	}
	end := start + pageSize
	if end > len(txs) {
		end = len(txs)
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     txs[start:end],
	})
}

// CreateTransaction 新增交易
// @Summary 新增交易
// @Description 金额必须为正数，收支方向由类型决定；未知类别自动回落到"其他"
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/transactions [post]
func CreateTransaction(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	if err != nil {
		BadRequest(c, "日期格式错误，应为 YYYY-MM-DD")
		return
	}

	store := ledger.NewStore(database.DB)
	tx, err := store.AddTransaction(userID, ledger.TransactionDraft{
		Type:        req.Type,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		WalletID:    req.WalletID,
		Date:        date,
		Description: req.Description,
		Source:      req.Source,
	})
	if err != nil {
		LedgerError(c, err, "创建交易失败")
		return
	}

	SuccessWithMessage(c, "创建成功", tx)
}

// GetTransaction 获取单笔交易
// @Summary 获取单笔交易
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 400 {object} Response "无效的交易ID"
// @Failure 404 {object} Response "交易不存在"
// @Router /api/v1/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的交易ID")
		return
	}

	store := ledger.NewStore(database.DB)
	tx, err := store.GetTransaction(userID, uint(id))
	if err != nil {
		LedgerError(c, err, "获取交易失败")
		return
	}

	Success(c, tx)
}

// UpdateTransaction 更新交易
// @Summary 更新交易
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Param request body TransactionUpdateRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "交易不存在"
// @Router /api/v1/transactions/{id} [put]
func UpdateTransaction(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的交易ID")
		return
	}

	var req TransactionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	patch := ledger.TransactionPatch{
		Type:         req.Type,
		Amount:       req.Amount,
		CategoryID:   req.CategoryID,
		WalletID:     req.WalletID,
		DetachWallet: req.DetachWallet,
		Description:  req.Description,
	}
	if req.Date != nil {
		date, err := time.ParseInLocation(dateLayout, *req.Date, time.Local)
		if err != nil {
			BadRequest(c, "日期格式错误，应为 YYYY-MM-DD")
			return
		}
		patch.Date = &date
	}

	store := ledger.NewStore(database.DB)
	tx, err := store.UpdateTransaction(userID, uint(id), patch)
	if err != nil {
		LedgerError(c, err, "更新交易失败")
		return
	}

	SuccessWithMessage(c, "更新成功", tx)
}

// DeleteTransaction 删除交易
// @Summary 删除交易
// @Description 删除不存在的交易同样返回成功（幂等）
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "无效的交易ID"
// @Router /api/v1/transactions/{id} [delete]
func DeleteTransaction(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的交易ID")
		return
	}

	store := ledger.NewStore(database.DB)
	if err := store.DeleteTransaction(userID, uint(id)); err != nil {
		LedgerError(c, err, "删除交易失败")
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// GetCategories 获取类别注册表
// @Summary 获取类别列表
// @Description 返回内置的支出、收入和固定支出类别
// @Tags 类别
// @Produce json
// @Success 200 {object} Response "获取成功"
// @Router /api/v1/categories [get]
func GetCategories(c *gin.Context) {
	Success(c, gin.H{
		"expense":    models.ExpenseCategories,
		"income":     models.IncomeCategories,
		"fixed_cost": models.FixedCostCategories,
	})
}
