package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageVariation is one relayed reply to a message. Immutable once created;
// the most recent variation is taken as the message's current reply. Failed
// relay attempts are recorded too, with the apology text and zero-uuid miner.
type MessageVariation struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	MessageID   string    `gorm:"index;type:varchar(36)" json:"message_id"`
	ValidatorID string    `gorm:"index;type:varchar(36)" json:"validator_id"`
	Miner       string    `gorm:"index" json:"miner"`
	Reply       string    `gorm:"type:text" json:"reply"`
	CreatedAt   time.Time `json:"created_at"`
}

func (mv *MessageVariation) BeforeCreate(tx *gorm.DB) (err error) {
	if mv.ID == "" {
		mv.ID = uuid.New().String()
	}
	return
}
