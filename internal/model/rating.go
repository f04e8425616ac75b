package model

import (
	"time"
)

// RatingType 用户对作战计划的评价
type RatingType int8

const (
	RatingNone    RatingType = 0
	RatingLike    RatingType = 1
	RatingDislike RatingType = 2
)

func (t RatingType) String() string {
	switch t {
	case RatingNone:
		return "none"
	case RatingLike:
		return "like"
	case RatingDislike:
		return "dislike"
	default:
		return "unknown"
	}
}

// Rating 每个 (operation, user) 至多一条，取消评价时置为 RatingNone 而不删除
type Rating struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	OperationID uint64     `gorm:"not null;uniqueIndex:idx_operation_user" json:"operationId"`
	UserID      uint64     `gorm:"not null;uniqueIndex:idx_operation_user;index:idx_user_id" json:"userId"`
	Type        RatingType `gorm:"not null;default:0" json:"type"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Rating) TableName() string {
	return "ratings"
}
