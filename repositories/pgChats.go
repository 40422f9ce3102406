package repositories

import (
	"chat-api/db"
	"chat-api/entities"

	"gorm.io/gorm"
)

type chatPgRepository struct {
	db db.Database
}

func NewChatPgRepository(database db.Database) ChatRepository {
	return &chatPgRepository{db: database}
}

func (r *chatPgRepository) Create(chat *entities.Chat) error {
	return r.db.GetDB().Create(chat).Error
}

func (r *chatPgRepository) GetByID(id string) (*entities.Chat, error) {
	var chat entities.Chat
	err := r.db.GetDB().
		Where("id = ? AND is_deleted = ?", id, false).
		First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatPgRepository) GetByIDWithMessages(id string) (*entities.Chat, error) {
	var chat entities.Chat
	err := r.db.GetDB().
		Where("id = ? AND is_deleted = ?", id, false).
		Preload("Messages", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("is_deleted = ?", false).Order("created_at ASC")
		}).
		Preload("Messages.Variations", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatPgRepository) ListByUserID(userID string, skip, limit int) ([]entities.Chat, int64, error) {
	base := r.db.GetDB().Model(&entities.Chat{}).
		Where("user_id = ? AND is_deleted = ?", userID, false)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var chats []entities.Chat
	err := base.
		Order("updated_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&chats).Error
	return chats, total, err
}

func (r *chatPgRepository) Update(chat *entities.Chat) error {
	return r.db.GetDB().Save(chat).Error
}

func (r *chatPgRepository) SoftDelete(id string) error {
	tx := r.db.GetDB()
	if err := tx.Model(&entities.Chat{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error; err != nil {
		return err
	}
	// Variations stay untouched so the audit trail survives deletion.
	return tx.Model(&entities.Message{}).
		Where("chat_id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true).Error
}
