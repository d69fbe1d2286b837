package api

import (
	"fmt"
	"net/http"
	"time"

	"budgetown/database"
	"budgetown/ledger"
	"budgetown/middleware"
	"budgetown/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// loadExportData 按过滤条件加载待导出的交易
func loadExportData(c *gin.Context) ([]models.Transaction, bool) {
	userID := middleware.GetCurrentUserID(c)

	filter, err := parseTxFilter(c)
	if err != nil {
		BadRequest(c, "查询参数错误")
		return nil, false
	}

	store := ledger.NewStore(database.DB)
	txs, err := store.ListTransactions(userID, filter)
	if err != nil {
		LedgerError(c, err, "获取交易记录失败")
		return nil, false
	}
	return txs, true
}

// ExportCSV 导出交易为 CSV
// @Summary 导出 CSV
// @Description 导出交易记录为 CSV 文件，末尾附带收支汇总块
// @Tags 导入导出
// @Produce text/csv
// @Security BearerAuth
// @Param type query string false "交易类型 income/expense"
// @Param category_id query string false "类别ID"
// @Param start_date query string false "起始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Success 200 {string} string "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/csv [get]
func ExportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	txs, ok := loadExportData(c)
	if !ok {
		return
	}

	// 起始余额为所有钱包起始余额之和
	store := ledger.NewStore(database.DB)
	wallets, err := store.ListWallets(userID)
	if err != nil {
		LedgerError(c, err, "获取钱包失败")
		return
	}
	starting := decimal.Zero
	for _, w := range wallets {
		starting = starting.Add(w.BaseBalance)
	}

	filename := fmt.Sprintf("budgetown_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))

	if err := ledger.WriteCSV(c.Writer, txs, starting); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}
}

// ExportJSON 导出交易为 JSON
// @Summary 导出 JSON
// @Tags 导入导出
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Transaction} "导出成功"
// @Router /api/v1/export/json [get]
func ExportJSON(c *gin.Context) {
	txs, ok := loadExportData(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("budgetown_%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))
	c.JSON(http.StatusOK, gin.H{
		"exported_at":  time.Now().Format(time.RFC3339),
		"count":        len(txs),
		"transactions": txs,
	})
}

// ExportExcel 导出交易为 Excel
// @Summary 导出 Excel
// @Description 导出交易记录为带样式的 xlsx 文件，末尾附带汇总行
// @Tags 导入导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param type query string false "交易类型 income/expense"
// @Param category_id query string false "类别ID"
// @Param start_date query string false "起始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Success 200 {string} string "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/excel [get]
func ExportExcel(c *gin.Context) {
	txs, ok := loadExportData(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "交易记录"
	f.SetSheetName("Sheet1", sheetName)

	// 表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"22C55E"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 数据样式
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// 列宽
	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 10)
	f.SetColWidth(sheetName, "C", "C", 14)
	f.SetColWidth(sheetName, "D", "D", 30)
	f.SetColWidth(sheetName, "E", "E", 16)
	f.SetColWidth(sheetName, "F", "F", 12)

	// 表头
	headers := []string{"日期", "类型", "类别", "描述", "金额", "来源"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	// 数据行
	income := 0.0
	expense := 0.0
	for i, tx := range txs {
		row := i + 2
		typeName := "支出"
		if tx.Type == models.TypeIncome {
			typeName = "收入"
		}
		categoryName := models.ResolveCategory(tx.CategoryID).Name

		amount, _ := tx.Amount.Float64()
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), tx.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), typeName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), categoryName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), tx.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), amount)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), tx.Source)

		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), dataStyle)

		if tx.Type == models.TypeIncome {
			income += amount
		} else {
			expense += amount
		}
	}

	// 汇总行
	summaryRow := len(txs) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("B%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("收入 %.2f", income))
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", summaryRow), fmt.Sprintf("支出 %.2f", expense))
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow), income-expense)
	f.SetCellValue(sheetName, fmt.Sprintf("F%d", summaryRow), fmt.Sprintf("共 %d 条", len(txs)))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("F%d", summaryRow), summaryStyle)

	filename := fmt.Sprintf("budgetown_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
}
