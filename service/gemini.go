package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"budgetown/config"
	"budgetown/models"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

// ReceiptResult 小票识别结果
type ReceiptResult struct {
	Amount            decimal.Decimal `json:"amount"`
	Merchant          string          `json:"merchant"`
	Date              string          `json:"date"`
	SuggestedCategory string          `json:"suggested_category"`
	Confidence        float64         `json:"confidence"`
	TransactionType   string          `json:"transaction_type"`
}

// GeminiService 小票识别服务
type GeminiService struct {
	cfg *config.GeminiConfig
}

// NewGeminiService 创建小票识别服务
func NewGeminiService(cfg *config.GeminiConfig) *GeminiService {
	return &GeminiService{cfg: cfg}
}

// receiptPrompt 构建识别提示词，分类 ID 来自分类注册表
func receiptPrompt() string {
	ids := make([]string, 0, len(models.ExpenseCategories))
	for _, c := range models.ExpenseCategories {
		ids = append(ids, c.ID)
	}

	return "Analyze this receipt or transaction screenshot and extract the payment information.\n" +
		"Respond with ONLY a JSON object, no Markdown fences, in this exact shape:\n" +
		"{\n" +
		"  \"amount\": <number, total paid, always positive>,\n" +
		"  \"merchant\": <string, merchant or payee name>,\n" +
		"  \"date\": <string, YYYY-MM-DD, today if not visible>,\n" +
		"  \"suggested_category\": <one of: " + strings.Join(ids, ", ") + ">,\n" +
		"  \"confidence\": <number between 0 and 1>,\n" +
		"  \"transaction_type\": <\"income\" or \"expense\">\n" +
		"}\n" +
		"If the image is not a receipt or payment screenshot, set confidence to 0."
}

// ExtractReceipt 调用 Gemini 识别小票图片
func (s *GeminiService) ExtractReceipt(ctx context.Context, imageData []byte, mimeType string) (*ReceiptResult, error) {
	if !s.cfg.Enabled {
		return nil, fmt.Errorf("Gemini 服务未启用，请配置 GEMINI_ENABLED=true")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      s.cfg.APIKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("创建 Gemini 客户端失败: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: receiptPrompt()},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     imageData,
					},
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, s.cfg.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("调用 Gemini 失败: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("Gemini 返回空响应")
	}

	result, err := parseReceiptJSON(rawText)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// parseReceiptJSON 解析模型返回的 JSON，并做字段归一化
func parseReceiptJSON(raw string) (*ReceiptResult, error) {
	clean := stripModelFences(raw)

	var result ReceiptResult
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return nil, fmt.Errorf("解析识别结果失败: %w", err)
	}

	// 金额统一为正数，符号由类型决定
	if result.Amount.IsNegative() {
		result.Amount = result.Amount.Neg()
	}

	// 置信度限制在 [0, 1]
	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}

	// 类型异常时按支出处理
	if result.TransactionType != models.TypeIncome && result.TransactionType != models.TypeExpense {
		result.TransactionType = models.TypeExpense
	}

	// 未知分类回退到 other
	result.SuggestedCategory = models.ResolveCategory(result.SuggestedCategory).ID

	return &result, nil
}

// stripModelFences 去除模型可能带上的 Markdown 代码块包装
func stripModelFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}
