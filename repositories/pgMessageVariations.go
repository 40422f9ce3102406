package repositories

import (
	"chat-api/db"
	"chat-api/entities"
)

type messageVariationPgRepository struct {
	db db.Database
}

func NewMessageVariationPgRepository(database db.Database) MessageVariationRepository {
	return &messageVariationPgRepository{db: database}
}

func (r *messageVariationPgRepository) Create(variation *entities.MessageVariation) error {
	return r.db.GetDB().Create(variation).Error
}

func (r *messageVariationPgRepository) GetByID(id string) (*entities.MessageVariation, error) {
	var variation entities.MessageVariation
	err := r.db.GetDB().Where("id = ?", id).First(&variation).Error
	if err != nil {
		return nil, err
	}
	return &variation, nil
}

func (r *messageVariationPgRepository) GetLatestByMessageID(messageID string) (*entities.MessageVariation, error) {
	var variation entities.MessageVariation
	err := r.db.GetDB().
		Where("message_id = ?", messageID).
		Order("created_at DESC").
		First(&variation).Error
	if err != nil {
		return nil, err
	}
	return &variation, nil
}
