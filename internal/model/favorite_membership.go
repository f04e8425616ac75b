package model

import (
	"time"
)

// FavoriteMembership 收藏夹与作战计划的唯一关联关系，两侧视图均由此表查询得出
type FavoriteMembership struct {
	ListID      uint64    `gorm:"primaryKey" json:"listId"`
	OperationID uint64    `gorm:"primaryKey;index:idx_operation_id" json:"operationId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (FavoriteMembership) TableName() string {
	return "favorite_memberships"
}
