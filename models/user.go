package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户模型
type User struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Username       string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password       string         `json:"-" gorm:"size:255;not null"`
	Email          string         `json:"email" gorm:"size:100"`
	TelegramChatID string         `json:"telegram_chat_id,omitempty" gorm:"size:32;index;default:''"` // Telegram 会话 ID，空表示未绑定
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}
