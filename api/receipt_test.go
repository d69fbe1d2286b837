package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"budgetown/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmReceipt(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 入账
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// 商户映射不存在时新建
	mock.ExpectQuery("SELECT .* FROM `merchant_categories`").
		WithArgs(uint(1), "warung padang sederhana").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `merchant_categories`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := newAuthedRouter()
	h := NewReceiptHandler(testConfig())
	router.POST("/receipts/confirm", h.ConfirmReceipt)

	body := `{"type":"expense","amount":"45000","category_id":"food","date":"2024-06-15","merchant":"Warung Padang Sederhana"}`
	req := httptest.NewRequest("POST", "/receipts/confirm", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, models.SourceScreenshot, data["source"])
	// 描述缺省使用商户名
	assert.Equal(t, "Warung Padang Sederhana", data["description"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmReceipt_UpdatesExistingMapping(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// 已有映射时更新类别
	mock.ExpectQuery("SELECT .* FROM `merchant_categories`").
		WithArgs(uint(1), "kfc").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "merchant", "category_id", "created_at", "updated_at", "deleted_at",
		}).AddRow(3, 1, "kfc", "shopping", now, now, nil))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `merchant_categories`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := newAuthedRouter()
	h := NewReceiptHandler(testConfig())
	router.POST("/receipts/confirm", h.ConfirmReceipt)

	body := `{"type":"expense","amount":"60000","category_id":"food","date":"2024-06-15","merchant":"KFC","description":"晚餐"}`
	req := httptest.NewRequest("POST", "/receipts/confirm", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractReceipt_MissingImage(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := newAuthedRouter()
	h := NewReceiptHandler(testConfig())
	router.POST("/receipts/extract", h.ExtractReceipt)

	req := httptest.NewRequest("POST", "/receipts/extract", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "图片")
}
