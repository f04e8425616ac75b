package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const sysBoxCollection = "sys_box"

// SysBoxModel 系统通知模型
type SysBoxModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 操作作者
	SenderID   uint64             `bson:"sender_id" json:"senderId"`     // 评分或收藏的用户
	Type       int8               `bson:"type" json:"type"`              // 1-被评分, 2-被收藏
	TargetID   uint64             `bson:"target_id" json:"targetId"`     // 操作ID
	Content    string             `bson:"content" json:"content"`
	Payload    map[string]any     `bson:"payload" json:"payload"`
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
