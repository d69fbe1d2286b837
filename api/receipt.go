package api

import (
	"io"
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

// 图片上传大小上限 10MB
const maxReceiptSize = 10 << 20

// ReceiptHandler 小票识别处理器
type ReceiptHandler struct {
	gemini *service.GeminiService
}

// NewReceiptHandler 创建小票识别处理器
func NewReceiptHandler(cfg *config.Config) *ReceiptHandler {
	return &ReceiptHandler{gemini: service.NewGeminiService(&cfg.Gemini)}
}

// ReceiptExtractResponse 识别结果响应
type ReceiptExtractResponse struct {
	service.ReceiptResult
	CategorySource string `json:"category_source"` // model / merchant_mapping
}

// ExtractReceipt 识别小票图片
// @Summary 识别小票
// @Description 上传小票或支付截图，返回识别出的金额、商户、日期和建议类别；已学习过的商户优先使用历史类别
// @Tags 小票识别
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "小票图片"
// @Success 200 {object} Response{data=ReceiptExtractResponse} "识别成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "识别失败"
// @Router /api/v1/receipts/extract [post]
func (h *ReceiptHandler) ExtractReceipt(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		BadRequest(c, "请上传小票图片")
		return
	}
	if fileHeader.Size > maxReceiptSize {
		BadRequest(c, "图片不能超过 10MB")
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	switch mimeType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		BadRequest(c, "仅支持 JPEG、PNG、WebP 格式的图片")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "读取图片失败")
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		BadRequest(c, "读取图片失败")
		return
	}

	result, err := h.gemini.ExtractReceipt(c.Request.Context(), imageData, mimeType)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "小票识别失败"))
		return
	}

	resp := ReceiptExtractResponse{
		ReceiptResult:  *result,
		CategorySource: "model",
	}

	// 已学习的商户映射优先于模型建议
	if merchant := models.NormalizeMerchant(result.Merchant); merchant != "" {
		var mapping models.MerchantCategory
		err := database.DB.Where("user_id = ? AND merchant = ?", userID, merchant).First(&mapping).Error
		if err == nil && models.KnownCategory(mapping.CategoryID) {
			resp.SuggestedCategory = mapping.CategoryID
			resp.CategorySource = "merchant_mapping"
		}
	}

	Success(c, resp)
}

// ReceiptConfirmRequest 确认入账请求
type ReceiptConfirmRequest struct {
	Type        string          `json:"type" binding:"required,oneof=income expense" example:"expense"`
	Amount      decimal.Decimal `json:"amount" binding:"required" example:"45000"`
	CategoryID  string          `json:"category_id" binding:"required" example:"food"`
	WalletID    *uint           `json:"wallet_id" example:"1"`
	Date        string          `json:"date" binding:"required" example:"2024-06-15"`
	Merchant    string          `json:"merchant" example:"Warung Padang Sederhana"`
	Description string          `json:"description" example:""`
}

// ConfirmReceipt 确认识别结果并入账
// @Summary 确认小票入账
// @Description 将识别（或修正后）的结果保存为交易，并记住商户与类别的对应关系供下次识别使用
// @Tags 小票识别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReceiptConfirmRequest true "确认信息"
// @Success 200 {object} Response{data=models.Transaction} "入账成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/receipts/confirm [post]
func (h *ReceiptHandler) ConfirmReceipt(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ReceiptConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	if err != nil {
		BadRequest(c, "日期格式错误，应为 YYYY-MM-DD")
		return
	}

	description := req.Description
	if description == "" {
		description = req.Merchant
	}

	store := ledger.NewStore(database.DB)
	tx, err := store.AddTransaction(userID, ledger.TransactionDraft{
		Type:        req.Type,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		WalletID:    req.WalletID,
		Date:        date,
		Description: description,
		Source:      models.SourceScreenshot,
	})
	if err != nil {
		LedgerError(c, err, "创建交易失败")
		return
	}

	// 学习商户到类别的映射，入账失败不影响主流程
	if merchant := models.NormalizeMerchant(req.Merchant); merchant != "" && models.KnownCategory(req.CategoryID) {
		var mapping models.MerchantCategory
		err := database.DB.Where("user_id = ? AND merchant = ?", userID, merchant).First(&mapping).Error
		if err == nil {
			database.DB.Model(&mapping).Update("category_id", req.CategoryID)
		} else {
			database.DB.Create(&models.MerchantCategory{
				UserID:     userID,
				Merchant:   merchant,
				CategoryID: req.CategoryID,
			})
		}
	}

	SuccessWithMessage(c, "入账成功", tx)
}
