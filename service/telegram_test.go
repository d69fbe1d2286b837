package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"budgetown/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage_Disabled(t *testing.T) {
	s := NewTelegramService(&config.TelegramConfig{})
	err := s.SendMessage("123", "hello")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "未启用")
}

func TestSendMessage_MissingChatID(t *testing.T) {
	s := NewTelegramService(&config.TelegramConfig{Enabled: true, BotToken: "token"})
	err := s.SendMessage("", "hello")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "未绑定")
}

func TestSendMessage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken123/sendMessage", r.URL.Path)

		var req sendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "42", req.ChatID)
		assert.Equal(t, "测试消息", req.Text)
		assert.Equal(t, "Markdown", req.ParseMode)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	s := NewTelegramService(&config.TelegramConfig{
		Enabled:  true,
		BotToken: "token123",
		APIBase:  server.URL,
	})
	err := s.SendMessage("42", "测试消息")
	assert.NoError(t, err)
}

func TestSendMessage_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	s := NewTelegramService(&config.TelegramConfig{
		Enabled:  true,
		BotToken: "token123",
		APIBase:  server.URL,
	})
	err := s.SendMessage("999", "测试消息")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestBuildBalanceMessage(t *testing.T) {
	msg := BuildBalanceMessage("Rp 150.000", "Rp 80.000", "Rp 30.000", []WalletLine{
		{Icon: "💵", Name: "Tunai", Balance: "Rp 50.000"},
		{Icon: "🏦", Name: "BCA", Balance: "Rp 100.000"},
	})
	assert.Contains(t, msg, "Tunai")
	assert.Contains(t, msg, "Rp 50.000")
	assert.Contains(t, msg, "总余额")
	assert.Contains(t, msg, "Rp 150.000")
	assert.Contains(t, msg, "收入: Rp 80.000")
	assert.Contains(t, msg, "支出: Rp 30.000")
}
