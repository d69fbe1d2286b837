package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet 钱包模型（如：现金、银行卡）
// BaseBalance 为用户手动设置的起始余额，交易流水不会修改它
type Wallet struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"index;not null"`
	Name        string          `json:"name" gorm:"size:50;not null"`
	Icon        string          `json:"icon" gorm:"size:10;default:💵"`
	Color       string          `json:"color" gorm:"size:20;default:#22c55e"` // 颜色代码，如 #22c55e
	BaseBalance decimal.Decimal `json:"base_balance" gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
	User        User            `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Wallet) TableName() string {
	return "wallets"
}

// DefaultWalletSeed 默认钱包定义
type DefaultWalletSeed struct {
	Name  string
	Icon  string
	Color string
}

// DefaultWallets 新用户的默认钱包集合
// 用户任何时刻至少拥有一个钱包，首次读取时按此集合初始化
func DefaultWallets() []DefaultWalletSeed {
	return []DefaultWalletSeed{
		{Name: "Tunai", Icon: "💵", Color: "#22c55e"},
		{Name: "BCA", Icon: "🏦", Color: "#004B93"},
		{Name: "BNI", Icon: "🏦", Color: "#F5821F"},
	}
}
