package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is one prompt turn within a chat.
type Message struct {
	ID         string             `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ChatID     string             `gorm:"index;type:varchar(36)" json:"chat_id"`
	Prompt     string             `gorm:"type:text" json:"prompt"`
	IsDeleted  bool               `gorm:"index" json:"-"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	Variations []MessageVariation `gorm:"foreignKey:MessageID" json:"variations,omitempty"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
