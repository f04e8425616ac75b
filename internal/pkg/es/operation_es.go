package es

import (
	"Opsboard/internal/model"
	"time"
)

// OperationES 写入 ES 的作战计划文档，id 为内部自增 ID
type OperationES struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Map         string    `json:"map"`
	Likes       uint64    `json:"likes"`
	Dislikes    uint64    `json:"dislikes"`
	Views       uint64    `json:"views"`
	HotScore    int64     `json:"hot_score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewOperationES(op *model.Operation) *OperationES {
	return &OperationES{
		ID:          op.ID,
		UserID:      op.UserID,
		Title:       op.Title,
		Description: op.Description,
		Map:         op.Map,
		Likes:       op.Likes,
		Dislikes:    op.Dislikes,
		Views:       op.Views,
		HotScore:    op.HotScore,
		CreatedAt:   op.CreatedAt,
		UpdatedAt:   op.UpdatedAt,
	}
}
