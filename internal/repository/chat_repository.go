package repository

import (
	"teacourse_backend/internal/model"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) WithTx(tx *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: tx}
}

// Count 某组已存的问答消息条数
func (r *ChatRepository) Count(groupID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ChatMessage{}).Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}

// Append 追加消息，问答记录只追加不修改
func (r *ChatRepository) Append(messages []model.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}
	return r.DB.Create(&messages).Error
}

func (r *ChatRepository) FindByGroup(groupID uint) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.DB.Where("group_id = ?", groupID).
		Order("message_index ASC").Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
