package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FixedCost 每月固定支出（房租、订阅等）
// 仅用于展示和汇总，不会自动生成交易记录
type FixedCost struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"user_id" gorm:"index;not null"`
	Name      string          `json:"name" gorm:"size:100;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	Category  string          `json:"category" gorm:"size:30;default:other_fixed"` // 固定支出类别
	DueDate   string          `json:"due_date" gorm:"size:50"`                     // 到期提示文本，如 "每月5号"
	Notes     string          `json:"notes" gorm:"size:255"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
	User      User            `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (FixedCost) TableName() string {
	return "fixed_costs"
}
