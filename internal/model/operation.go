package model

import (
	"time"
)

// Operation 用户上传的作战计划
type Operation struct {
	ID          uint64    `gorm:"primaryKey"`
	UserID      uint64    `gorm:"not null;index:idx_user_id" json:"user_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Map         string    `gorm:"type:varchar(128)" json:"map"`
	Likes       uint64    `gorm:"not null;default:0" json:"likes"`
	Dislikes    uint64    `gorm:"not null;default:0" json:"dislikes"`
	Views       uint64    `gorm:"not null;default:0" json:"views"`
	HotScore    int64     `gorm:"not null;default:0;index:idx_hot_score" json:"hot_score"` // 缓存值，可由计数重算
	IsDeleted   bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Operation) TableName() string {
	return "operations"
}
