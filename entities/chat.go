package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat is a conversation container. The validator assignment is fixed at
// creation and never changes afterwards.
type Chat struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string    `json:"name"`
	UserID      string    `gorm:"index;type:varchar(36)" json:"user_id"`
	ValidatorID string    `gorm:"index;type:varchar(36)" json:"validator_id"`
	IsDeleted   bool      `gorm:"index" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Messages    []Message `gorm:"foreignKey:ChatID" json:"messages,omitempty"`
}

func (c *Chat) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
