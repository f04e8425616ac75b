package dto

// SysBoxDTO 系统通知返回对象
type SysBoxDTO struct {
	ID          string         `json:"id"`
	SenderID    uint64         `json:"sender_id"`
	SenderName  string         `json:"sender_name"`
	Type        int8           `json:"type"`         // 1-被评价, 2-被收藏
	OperationID string         `json:"operation_id"` // 公开编码
	Content     string         `json:"content"`
	Payload     map[string]any `json:"payload"`
	IsRead      bool           `json:"is_read"`
	CreatedAt   string         `json:"created_at"`
}

// SysBoxUnreadDTO 未读数返回
type SysBoxUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}

// SysBoxPageDTO 通知列表与未读数一起返回
type SysBoxPageDTO struct {
	List        []*SysBoxDTO `json:"list"`
	UnreadCount int64        `json:"unread_count"`
}

// MarkReadDTO 标记单条已读
type MarkReadDTO struct {
	MsgID string `json:"msgId" binding:"required"`
}
