package ledger

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"budgetown/models"

	"github.com/shopspring/decimal"
)

// CSV 列顺序固定为 Date,Type,Category,Description,Amount，
// 文件末尾附带一个汇总块，导入时会自动跳过
var csvHeader = []string{"Date", "Type", "Category", "Description", "Amount"}

const csvDateLayout = "2006-01-02"

// utf8BOM 让 Excel 正确识别编码
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV 将交易导出为 CSV，支出金额带负号，收入为正
// startingBalance 为所有钱包起始余额之和，写入末尾汇总块
func WriteCSV(w io.Writer, txs []models.Transaction, startingBalance decimal.Decimal) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range txs {
		amount := tx.Amount
		if tx.Type == models.TypeExpense {
			amount = amount.Neg()
		}
		record := []string{
			tx.Date.Format(csvDateLayout),
			tx.Type,
			tx.CategoryID,
			tx.Description,
			amount.String(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
		if tx.Type == models.TypeIncome {
			income = income.Add(tx.Amount)
		} else {
			expense = expense.Add(tx.Amount)
		}
	}

	// 汇总块，导入时会被跳过
	current := startingBalance.Add(income).Sub(expense)
	summary := [][]string{
		{},
		{"Summary"},
		{"Starting Balance", "", "", "", startingBalance.String()},
		{"Total Income", "", "", "", income.String()},
		{"Total Expenses", "", "", "", expense.Neg().String()},
		{"Current Balance", "", "", "", current.String()},
	}
	for _, row := range summary {
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ImportResult CSV 解析结果
type ImportResult struct {
	Drafts  []TransactionDraft // 可入账的记录
	Skipped int                // 被跳过的数据行数
}

// ParseCSV 解析导出的 CSV 文件
// 首行为表头时跳过；Type 列为空时按金额符号推断方向；
// 无法解析的行和末尾汇总块静默跳过而不是整体失败
func ParseCSV(r io.Reader) (*ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	result := &ImportResult{}
	first := true

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			continue
		}

		// 去除 BOM
		if len(record) > 0 {
			record[0] = strings.TrimPrefix(record[0], "\uFEFF")
		}

		if first {
			first = false
			if isCSVHeader(record) {
				continue
			}
		}

		// 跳过空行和汇总块
		if len(record) < 5 || isSummaryRow(record) {
			continue
		}

		draft, ok := parseCSVRecord(record)
		if !ok {
			result.Skipped++
			continue
		}
		result.Drafts = append(result.Drafts, draft)
	}

	return result, nil
}

func isCSVHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "date")
}

func isSummaryRow(record []string) bool {
	if len(record) == 0 {
		return true
	}
	head := strings.ToLower(strings.TrimSpace(record[0]))
	switch head {
	case "", "summary", "starting balance", "total income", "total expenses", "current balance":
		return true
	}
	return false
}

// parseCSVRecord 解析单条数据行，字段不合法时返回 ok=false
func parseCSVRecord(record []string) (TransactionDraft, bool) {
	var draft TransactionDraft

	date, err := time.ParseInLocation(csvDateLayout, strings.TrimSpace(record[0]), time.Local)
	if err != nil {
		return draft, false
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(record[4]))
	if err != nil {
		return draft, false
	}

	txType := strings.ToLower(strings.TrimSpace(record[1]))
	switch txType {
	case models.TypeIncome, models.TypeExpense:
	case "":
		// 无类型列时按符号推断
		if amount.IsNegative() {
			txType = models.TypeExpense
		} else {
			txType = models.TypeIncome
		}
	default:
		return draft, false
	}

	amount = amount.Abs()
	if !amount.IsPositive() {
		return draft, false
	}

	draft = TransactionDraft{
		Type:        txType,
		Amount:      amount,
		CategoryID:  models.ResolveCategory(strings.TrimSpace(record[2])).ID,
		Date:        date,
		Description: strings.TrimSpace(record[3]),
		Source:      models.SourceImport,
	}
	return draft, true
}
