package repositories

import (
	"time"

	"chat-api/db"
	"chat-api/entities"

	"gorm.io/gorm"
)

type messagePgRepository struct {
	db db.Database
}

func NewMessagePgRepository(database db.Database) MessageRepository {
	return &messagePgRepository{db: database}
}

func (r *messagePgRepository) Create(message *entities.Message) error {
	return r.db.GetDB().Create(message).Error
}

func (r *messagePgRepository) GetByID(chatID, id string) (*entities.Message, error) {
	var message entities.Message
	err := r.db.GetDB().
		Where("id = ? AND chat_id = ? AND is_deleted = ?", id, chatID, false).
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messagePgRepository) ListByChatID(chatID string, skip, limit int) ([]entities.Message, error) {
	var messages []entities.Message
	err := r.db.GetDB().
		Where("chat_id = ? AND is_deleted = ?", chatID, false).
		Preload("Variations", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *messagePgRepository) SoftDelete(id string) error {
	return r.db.GetDB().Model(&entities.Message{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (r *messagePgRepository) Touch(id string, at time.Time) error {
	return r.db.GetDB().Model(&entities.Message{}).
		Where("id = ?", id).
		Update("updated_at", at).Error
}
