package dto

// RateOperationDTO type: 1-好评, 2-差评，重复提交同一类型视为取消
type RateOperationDTO struct {
	Type int8 `json:"type" binding:"required" validate:"oneof=1 2"`
}

// RatingStateDTO 评价后的最新状态
type RatingStateDTO struct {
	OperationID string  `json:"operation_id"`
	RatingType  int8    `json:"rating_type"`
	Likes       uint64  `json:"likes"`
	Dislikes    uint64  `json:"dislikes"`
	HotScore    int64   `json:"hot_score"`
	RatingRatio float64 `json:"rating_ratio"`
}
