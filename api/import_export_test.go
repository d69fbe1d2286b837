package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := testDate(2024, 6, 15)
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(1)).
		WillReturnRows(transactionRows().
			AddRow(1, 1, "expense", "45000", "food", nil, now, "lunch", "manual", now, now, nil).
			AddRow(2, 1, "income", "100000", "salary", nil, now, "", "manual", now, now, nil))
	mock.ExpectQuery("SELECT .* FROM `wallets`").
		WithArgs(uint(1)).
		WillReturnRows(walletRows().
			AddRow(1, 1, "Tunai", "💵", "#22C55E", "30000", now, now, nil))

	router := newAuthedRouter()
	router.GET("/export/csv", ExportCSV)

	req := httptest.NewRequest("GET", "/export/csv", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"))
	assert.Contains(t, body, "Date,Type,Category,Description,Amount")
	assert.Contains(t, body, "2024-06-15,expense,food,lunch,-45000")
	assert.Contains(t, body, "Starting Balance,,,,30000")
	assert.Contains(t, body, "Total Income,,,,100000")
	assert.Contains(t, body, "Total Expenses,,,,-45000")
	assert.Contains(t, body, "Current Balance,,,,85000")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJSON(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := testDate(2024, 6, 15)
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(1)).
		WillReturnRows(transactionRows().
			AddRow(1, 1, "expense", "45000", "food", nil, now, "lunch", "manual", now, now, nil))

	router := newAuthedRouter()
	router.GET("/export/json", ExportJSON)

	req := httptest.NewRequest("GET", "/export/json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["count"])
	assert.NotEmpty(t, resp["transactions"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportExcel(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := testDate(2024, 6, 15)
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WithArgs(uint(1)).
		WillReturnRows(transactionRows().
			AddRow(1, 1, "expense", "45000", "food", nil, now, "lunch", "manual", now, now, nil))

	router := newAuthedRouter()
	router.GET("/export/excel", ExportExcel)

	req := httptest.NewRequest("GET", "/export/excel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotEmpty(t, w.Body.Bytes())
	require.NoError(t, mock.ExpectationsWereMet())
}

func buildCSVUpload(t *testing.T, content string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "import.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestImportCSV(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 两条合法记录各插入一次
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `transactions`").
			WillReturnResult(sqlmock.NewResult(int64(i+1), 1))
		mock.ExpectCommit()
	}

	router := newAuthedRouter()
	router.POST("/import/csv", ImportCSV)

	content := "Date,Type,Category,Description,Amount\n" +
		"2024-06-15,expense,food,lunch,45000\n" +
		"bad-row,,,,\n" +
		"2024-06-16,income,salary,gaji,100000\n" +
		"\n" +
		"Summary\n" +
		"Total Income,100000\n"

	body, contentType := buildCSVUpload(t, content)
	req := httptest.NewRequest("POST", "/import/csv", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["imported"])
	assert.Equal(t, float64(1), data["skipped"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImportCSV_MissingFile(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := newAuthedRouter()
	router.POST("/import/csv", ImportCSV)

	req := httptest.NewRequest("POST", "/import/csv", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}
