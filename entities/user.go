package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SourceNative = "native"
	SourceGoogle = "google"
)

// User is an identity record. Rows are never physically deleted.
type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string    `gorm:"unique;not null;index" json:"username"`
	Email        string    `gorm:"unique;not null;index" json:"email"`
	Password     string    `gorm:"type:text" json:"-"`
	RefreshToken string    `gorm:"type:text" json:"-"`
	ResetToken   string    `gorm:"type:text" json:"-"`
	Source       string    `gorm:"type:varchar(32)" json:"source"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Source == "" {
		u.Source = SourceNative
	}
	return
}
