package service

import (
	"testing"

	"budgetown/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripModelFences(t *testing.T) {
	// 无包装
	assert.Equal(t, `{"a":1}`, stripModelFences(`{"a":1}`))

	// ```json 包装
	assert.Equal(t, `{"a":1}`, stripModelFences("```json\n{\"a\":1}\n```"))

	// 纯 ``` 包装
	assert.Equal(t, `{"a":1}`, stripModelFences("```\n{\"a\":1}\n```"))

	// 前后空白
	assert.Equal(t, `{"a":1}`, stripModelFences("  \n{\"a\":1}\n  "))
}

func TestParseReceiptJSON(t *testing.T) {
	raw := "```json\n" + `{
  "amount": 45000,
  "merchant": "Warung Padang Sederhana",
  "date": "2024-06-15",
  "suggested_category": "food",
  "confidence": 0.92,
  "transaction_type": "expense"
}` + "\n```"

	result, err := parseReceiptJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, "45000", result.Amount.String())
	assert.Equal(t, "Warung Padang Sederhana", result.Merchant)
	assert.Equal(t, "food", result.SuggestedCategory)
	assert.Equal(t, models.TypeExpense, result.TransactionType)
	assert.InDelta(t, 0.92, result.Confidence, 1e-9)
}

func TestParseReceiptJSON_Normalization(t *testing.T) {
	raw := `{
  "amount": -100,
  "merchant": "X",
  "date": "2024-06-15",
  "suggested_category": "not-a-category",
  "confidence": 1.5,
  "transaction_type": "transfer"
}`

	result, err := parseReceiptJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, "100", result.Amount.String())
	assert.Equal(t, models.CategoryOther, result.SuggestedCategory)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, models.TypeExpense, result.TransactionType)
}

func TestParseReceiptJSON_Invalid(t *testing.T) {
	_, err := parseReceiptJSON("not json at all")
	assert.Error(t, err)
}

func TestReceiptPrompt_ListsCategories(t *testing.T) {
	prompt := receiptPrompt()
	assert.Contains(t, prompt, "food")
	assert.Contains(t, prompt, "transport")
	assert.Contains(t, prompt, "other")
	assert.Contains(t, prompt, "JSON")
}
