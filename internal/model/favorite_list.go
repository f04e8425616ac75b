package model

import (
	"time"
)

type FavoriteList struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index:idx_user_id" json:"userId"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	IsDeleted bool      `gorm:"type:tinyint(1);not null;default:0" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (FavoriteList) TableName() string {
	return "favorite_lists"
}
