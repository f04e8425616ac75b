package dto

import "time"

// CreateFavoriteListDTO 新建收藏夹
type CreateFavoriteListDTO struct {
	Name string `json:"name" binding:"required" validate:"required,min=1,max=100"`
}

// FavoriteListDTO 收藏夹，id 为公开编码
type FavoriteListDTO struct {
	ID        string    `json:"id"`
	OwnerID   uint64    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteChangeDTO 收藏关系变更结果，changed 为 false 表示本次为空操作
type FavoriteChangeDTO struct {
	ListID      string `json:"list_id"`
	OperationID string `json:"operation_id"`
	Favorited   bool   `json:"favorited"`
	Changed     bool   `json:"changed"`
}
