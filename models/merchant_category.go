package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// MerchantCategory 商户→类别学习映射
// 截图识别确认后记录商户对应的类别，下次识别同一商户时优先采用
// Merchant 统一存小写，匹配时不区分大小写
type MerchantCategory struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_user_merchant"`
	Merchant   string         `json:"merchant" gorm:"size:100;not null;uniqueIndex:idx_user_merchant"`
	CategoryID string         `json:"category_id" gorm:"size:30;not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
	User       User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (MerchantCategory) TableName() string {
	return "merchant_categories"
}

// NormalizeMerchant 规范化商户名（小写、去首尾空格）
func NormalizeMerchant(merchant string) string {
	return strings.ToLower(strings.TrimSpace(merchant))
}
