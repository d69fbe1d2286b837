package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"budgetown/config"
)

const defaultTelegramAPIBase = "https://api.telegram.org"

// TelegramService Telegram Bot 消息服务
type TelegramService struct {
	cfg    *config.TelegramConfig
	client *http.Client
}

// NewTelegramService 创建 Telegram 消息服务
func NewTelegramService(cfg *config.TelegramConfig) *TelegramService {
	return &TelegramService{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// sendMessageRequest Bot API sendMessage 请求体
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// sendMessageResponse Bot API 响应
type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// apiBase 返回 Bot API 地址，未配置时使用官方地址
func (s *TelegramService) apiBase() string {
	if s.cfg.APIBase != "" {
		return s.cfg.APIBase
	}
	return defaultTelegramAPIBase
}

// SendMessage 向指定会话发送 Markdown 格式消息
func (s *TelegramService) SendMessage(chatID, text string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("Telegram 服务未启用，请配置 TELEGRAM_ENABLED=true")
	}
	if s.cfg.BotToken == "" {
		return fmt.Errorf("未配置 Telegram Bot Token")
	}
	if chatID == "" {
		return fmt.Errorf("用户未绑定 Telegram 会话")
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("序列化请求失败: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase(), s.cfg.BotToken)
	resp, err := s.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("请求 Telegram 服务器失败: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}

	var result sendMessageResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	if !result.OK {
		msg := result.Description
		if msg == "" {
			msg = string(data)
		}
		return fmt.Errorf("Telegram 返回错误: %s", msg)
	}

	return nil
}

// BuildBalanceMessage 生成余额概览消息，附带本月收支
func BuildBalanceMessage(total, monthIncome, monthExpense string, wallets []WalletLine) string {
	var buf bytes.Buffer
	buf.WriteString("💰 *Budgetown 余额概览*\n\n")
	for _, w := range wallets {
		fmt.Fprintf(&buf, "%s %s: %s\n", w.Icon, w.Name, w.Balance)
	}
	fmt.Fprintf(&buf, "\n*总余额*: %s\n", total)
	fmt.Fprintf(&buf, "\n📊 *本月*\n📈 收入: %s\n📉 支出: %s", monthIncome, monthExpense)
	return buf.String()
}

// WalletLine 余额消息中的单个钱包行
type WalletLine struct {
	Icon    string
	Name    string
	Balance string
}
