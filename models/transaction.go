package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 交易类型常量
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// 交易来源常量
const (
	SourceManual     = "manual"     // 手动录入
	SourceImport     = "import"     // CSV 导入
	SourceScreenshot = "screenshot" // 截图识别
)

// Transaction 交易记录模型
// Amount 恒为正数，收支方向由 Type 决定；WalletID 为空表示未归属任何钱包
type Transaction struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"index;not null"`
	Type        string          `json:"type" gorm:"size:10;not null;index"` // income / expense
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	CategoryID  string          `json:"category_id" gorm:"size:30;not null;index"`
	WalletID    *uint           `json:"wallet_id" gorm:"index"` // NULL 表示未归属
	Date        time.Time       `json:"date" gorm:"not null;index"`
	Description string          `json:"description" gorm:"size:255"`
	Source      string          `json:"source" gorm:"size:20;default:manual"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
	User        User            `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// SignedAmount 按类型返回带符号金额（收入为正，支出为负）
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Attributed 是否归属于某个钱包
func (t *Transaction) Attributed() bool {
	return t.WalletID != nil
}
