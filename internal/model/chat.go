package model

import "time"

// 茶助教问答的消息角色
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage 茶助教问答记录表，按 message_index 排序，只追加不修改
// swagger:model
type ChatMessage struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID      uint      `gorm:"not null;index;comment:学生组ID" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;comment:消息角色" json:"role"`
	Content      string    `gorm:"type:text;comment:消息内容" json:"content"`
	MessageIndex int       `gorm:"not null;comment:消息序号" json:"messageIndex"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
