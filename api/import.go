package api

import (
	"strconv"

	"budgetown/database"
	"budgetown/ledger"
	"budgetown/middleware"

	"github.com/gin-gonic/gin"
)

// ImportReport CSV 导入结果
type ImportReport struct {
	Imported int `json:"imported"` // 成功入账数
	Skipped  int `json:"skipped"`  // 被跳过的行数
}

// ImportCSV 导入 CSV 交易记录
// @Summary 导入 CSV
// @Description 上传导出格式的 CSV 文件批量导入交易；无法解析的行会被跳过并计入报告，可通过 wallet_id 将导入的交易归属到指定钱包
// @Tags 导入导出
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV 文件"
// @Param wallet_id formData int false "归属钱包ID，缺省为未归属"
// @Success 200 {object} Response{data=ImportReport} "导入完成"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/import/csv [post]
func ImportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "请上传 CSV 文件")
		return
	}

	var walletID *uint
	if raw := c.PostForm("wallet_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			BadRequest(c, "无效的钱包ID")
			return
		}
		v := uint(id)
		walletID = &v
	}

	file, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "读取文件失败")
		return
	}
	defer file.Close()

	result, err := ledger.ParseCSV(file)
	if err != nil {
		BadRequest(c, "解析 CSV 失败")
		return
	}

	store := ledger.NewStore(database.DB)
	report := ImportReport{Skipped: result.Skipped}
	for _, draft := range result.Drafts {
		draft.WalletID = walletID
		if _, err := store.AddTransaction(userID, draft); err != nil {
			report.Skipped++
			continue
		}
		report.Imported++
	}

	SuccessWithMessage(c, "导入完成", report)
}
