package api

import (
	"time"

	"budgetown/config"
	"budgetown/database"
	"budgetown/ledger"
	"budgetown/middleware"
	"budgetown/models"
	"budgetown/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// NotifyHandler 消息推送处理器
type NotifyHandler struct {
	telegram *service.TelegramService
}

// NewNotifyHandler 创建消息推送处理器
func NewNotifyHandler(cfg *config.Config) *NotifyHandler {
	return &NotifyHandler{telegram: service.NewTelegramService(&cfg.Telegram)}
}

// BindTelegramRequest 绑定 Telegram 会话请求
type BindTelegramRequest struct {
	ChatID string `json:"chat_id" binding:"required" example:"123456789"`
}

// BindTelegram 绑定 Telegram 会话
// @Summary 绑定 Telegram
// @Description 记录用户的 Telegram 会话 ID，用于接收余额推送；chat_id 可通过 @userinfobot 获取
// @Tags 消息推送
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BindTelegramRequest true "绑定信息"
// @Success 200 {object} Response "绑定成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/notify/telegram/bind [put]
func (h *NotifyHandler) BindTelegram(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req BindTelegramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("telegram_chat_id", req.ChatID).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "绑定失败"))
		return
	}

	SuccessWithMessage(c, "绑定成功", nil)
}

// loadChatID 返回当前用户绑定的 Telegram 会话 ID
func loadChatID(c *gin.Context) (string, bool) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "用户不存在")
		return "", false
	}
	if user.TelegramChatID == "" {
		BadRequest(c, "请先绑定 Telegram 会话")
		return "", false
	}
	return user.TelegramChatID, true
}

// TestTelegram 发送 Telegram 测试消息
// @Summary 发送测试消息
// @Tags 消息推送
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "未绑定会话"
// @Failure 500 {object} Response "发送失败"
// @Router /api/v1/notify/telegram/test [post]
func (h *NotifyHandler) TestTelegram(c *gin.Context) {
	chatID, ok := loadChatID(c)
	if !ok {
		return
	}

	if err := h.telegram.SendMessage(chatID, "✅ Budgetown 推送配置成功"); err != nil {
		InternalError(c, SafeErrorMessage(err, "发送失败"))
		return
	}

	SuccessWithMessage(c, "发送成功", nil)
}

// PushBalance 推送余额概览
// @Summary 推送余额概览
// @Description 将各钱包余额和总余额推送到绑定的 Telegram 会话
// @Tags 消息推送
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "推送成功"
// @Failure 400 {object} Response "未绑定会话"
// @Failure 500 {object} Response "推送失败"
// @Router /api/v1/notify/telegram/balance [post]
func (h *NotifyHandler) PushBalance(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	chatID, ok := loadChatID(c)
	if !ok {
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

	items := ledger.AllWalletBalances(wallets, txs)
	lines := make([]service.WalletLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, service.WalletLine{
			Icon:    item.Wallet.Icon,
			Name:    item.Wallet.Name,
			Balance: item.CurrentBalance.String(),
		})
	}
	total := ledger.AggregateBalance(wallets, txs)

	// 本月收支
	now := time.Now()
	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range txs {
		if !ledger.InMonth(tx.Date, now.Month(), now.Year()) {
			continue
		}
		if tx.Type == models.TypeIncome {
			income = income.Add(tx.Amount)
		} else {
			expense = expense.Add(tx.Amount)
		}
	}

	msg := service.BuildBalanceMessage(total.String(), income.String(), expense.String(), lines)
	if err := h.telegram.SendMessage(chatID, msg); err != nil {
		InternalError(c, SafeErrorMessage(err, "推送失败"))
		return
	}

	SuccessWithMessage(c, "推送成功", nil)
}
