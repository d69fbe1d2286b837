package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budgetown/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notifyConfig(apiBase string) *config.Config {
	cfg := testConfig()
	cfg.Telegram = config.TelegramConfig{
		Enabled:  true,
		BotToken: "test-token",
		APIBase:  apiBase,
	}
	return cfg
}

func TestBindTelegram(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := newAuthedRouter()
	h := NewNotifyHandler(notifyConfig(""))
	router.PUT("/notify/telegram/bind", h.BindTelegram)

	body := `{"chat_id":"123456789"}`
	req := httptest.NewRequest("PUT", "/notify/telegram/bind", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "绑定成功", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTestTelegram_NotBound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(uint(1)).
		WillReturnRows(userRows().
			AddRow(1, "tester", "hash", "", "", now, now, nil))

	router := newAuthedRouter()
	h := NewNotifyHandler(notifyConfig(""))
	router.POST("/notify/telegram/test", h.TestTelegram)

	req := httptest.NewRequest("POST", "/notify/telegram/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "绑定")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPushBalance(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	var sent struct {
		ChatID string `json:"chat_id"`
		Text   string `json:"text"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs(uint(1)).
		WillReturnRows(userRows().
			AddRow(1, "tester", "hash", "", "42", now, now, nil))
	mock.ExpectQuery("SELECT .* FROM `wallets`").
		WithArgs(uint(1)).
		WillReturnRows(walletRows().
			AddRow(1, 1, "Tunai", "💵", "#22c55e", "50000", now, now, nil))
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(1)).
		WillReturnRows(transactionRows().
			AddRow(1, 1, "income", "25000", "salary", 1, now, "", "manual", now, now, nil))

	router := newAuthedRouter()
	h := NewNotifyHandler(notifyConfig(server.URL))
	router.POST("/notify/telegram/balance", h.PushBalance)

	req := httptest.NewRequest("POST", "/notify/telegram/balance", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "42", sent.ChatID)
	assert.Contains(t, sent.Text, "Tunai")
	assert.Contains(t, sent.Text, "75000")
	assert.Contains(t, sent.Text, "收入: 25000")
	assert.Contains(t, sent.Text, "支出: 0")
	require.NoError(t, mock.ExpectationsWereMet())
}
