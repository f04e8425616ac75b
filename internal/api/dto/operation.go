package dto

import "time"

// CreateOperationDTO 上传作战计划
type CreateOperationDTO struct {
	Title       string `json:"title" binding:"required" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=5000"`
	Map         string `json:"map" validate:"max=128"`
}

// OperationDTO 作战计划，id 为公开编码
type OperationDTO struct {
	ID          string    `json:"id"`
	AuthorID    uint64    `json:"author_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Map         string    `json:"map"`
	Likes       uint64    `json:"likes"`
	Dislikes    uint64    `json:"dislikes"`
	Views       uint64    `json:"views"`
	HotScore    int64     `json:"hot_score"`
	RatingRatio float64   `json:"rating_ratio"` // 无评价时为 -1
	CreatedAt   time.Time `json:"created_at"`
}

// OperationDetailDTO 详情页，附带当前用户的评价状态
type OperationDetailDTO struct {
	OperationDTO
	MyRating int8 `json:"my_rating"`
}

// SearchOperationDTO 搜索参数
type SearchOperationDTO struct {
	Keyword  string `form:"keyword" validate:"max=100"`
	Map      string `form:"map" validate:"max=128"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
