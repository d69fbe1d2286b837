package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget 类别月度预算
// 每个 (用户, 类别) 至多一条记录，设置时覆盖旧值；预算不分月份存储
type Budget struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	UserID       uint            `json:"user_id" gorm:"not null;uniqueIndex:idx_user_category"`
	CategoryID   string          `json:"category_id" gorm:"size:30;not null;uniqueIndex:idx_user_category"`
	MonthlyLimit decimal.Decimal `json:"monthly_limit" gorm:"type:decimal(14,2);not null"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `json:"-" gorm:"index"`
	User         User            `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Budget) TableName() string {
	return "budgets"
}
