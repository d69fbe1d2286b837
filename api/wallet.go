package api

import (
	"strconv"

	"budgetown/database"
	"budgetown/ledger"
	"budgetown/middleware"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// WalletRequest 创建/更新钱包请求
type WalletRequest struct {
	Name        *string          `json:"name" example:"BCA"`
	Icon        *string          `json:"icon" example:"🏦"`
	Color       *string          `json:"color" example:"#004B93"`
	BaseBalance *decimal.Decimal `json:"base_balance" example:"100000"`
}

// WalletListResponse 钱包列表响应
type WalletListResponse struct {
	Wallets           []ledger.WalletBalanceItem `json:"wallets"`
	TotalBalance      decimal.Decimal            `json:"total_balance"`
	UnattributedTotal decimal.Decimal            `json:"unattributed_total"`
}

// GetWallets 获取钱包列表及余额
// @Summary 获取钱包列表
// @Description 返回当前用户的所有钱包、各钱包当前余额及总余额；首次访问时自动创建默认钱包
// @Tags 钱包
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=WalletListResponse} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/wallets [get]
func GetWallets(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	store := ledger.NewStore(database.DB)

	wallets, err := store.ListWallets(userID)
	if err != nil {
		LedgerError(c, err, "获取钱包列表失败")
		return
	}

	txs, err := store.ListTransactions(userID, ledger.TxFilter{})
	if err != nil {
		LedgerError(c, err, "获取交易记录失败")
		return
	}

	Success(c, WalletListResponse{
		Wallets:           ledger.AllWalletBalances(wallets, txs),
		TotalBalance:      ledger.AggregateBalance(wallets, txs),
		UnattributedTotal: ledger.UnattributedTotal(wallets, txs),
	})
}

// GetWalletBalances 获取各钱包当前余额
// @Summary 获取钱包余额
// @Description 仅返回各钱包的当前余额列表，不含总余额
// @Tags 钱包
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]ledger.WalletBalanceItem} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/wallets/balances [get]
func GetWalletBalances(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	store := ledger.NewStore(database.DB)

	wallets, err := store.ListWallets(userID)
	if err != nil {
		LedgerError(c, err, "获取钱包列表失败")
		return
	}

	txs, err := store.ListTransactions(userID, ledger.TxFilter{})
	if err != nil {
		LedgerError(c, err, "获取交易记录失败")
		return
	}

	Success(c, ledger.AllWalletBalances(wallets, txs))
}

// CreateWallet 创建钱包
// @Summary 创建钱包
// @Tags 钱包
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body WalletRequest true "钱包信息"
// @Success 200 {object} Response{data=models.Wallet} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/wallets [post]
func CreateWallet(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req WalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	store := ledger.NewStore(database.DB)
	wallet, err := store.UpsertWallet(userID, 0, ledger.WalletPatch{
		Name:        req.Name,
		Icon:        req.Icon,
		Color:       req.Color,
		BaseBalance: req.BaseBalance,
	})
	if err != nil {
		LedgerError(c, err, "创建钱包失败")
		return
	}

	SuccessWithMessage(c, "创建成功", wallet)
}

// UpdateWallet 更新钱包
// @Summary 更新钱包
// @Description 只更新请求中携带的字段，起始余额仅在显式提供时变化
// @Tags 钱包
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "钱包ID"
// @Param request body WalletRequest true "钱包信息"
// @Success 200 {object} Response{data=models.Wallet} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "钱包不存在"
// @Router /api/v1/wallets/{id} [put]
func UpdateWallet(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的钱包ID")
		return
	}

	var req WalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	store := ledger.NewStore(database.DB)
	wallet, err := store.UpsertWallet(userID, uint(id), ledger.WalletPatch{
		Name:        req.Name,
		Icon:        req.Icon,
		Color:       req.Color,
		BaseBalance: req.BaseBalance,
	})
	if err != nil {
		LedgerError(c, err, "更新钱包失败")
		return
	}

	SuccessWithMessage(c, "更新成功", wallet)
}

// DeleteWallet 删除钱包
// @Summary 删除钱包
// @Description 删除后该钱包下的交易转为未归属，仍计入总余额；最后一个钱包不允许删除
// @Tags 钱包
// @Produce json
// @Security BearerAuth
// @Param id path int true "钱包ID"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "至少保留一个钱包"
// @Failure 404 {object} Response "钱包不存在"
// @Router /api/v1/wallets/{id} [delete]
func DeleteWallet(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的钱包ID")
		return
	}

	store := ledger.NewStore(database.DB)
	if err := store.DeleteWallet(userID, uint(id)); err != nil {
		LedgerError(c, err, "删除钱包失败")
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}
