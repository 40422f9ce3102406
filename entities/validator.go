package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Validator is an external responder tracked locally as metadata. The uid is
// the external identity key used for upserts; ID is a surrogate key. Rows are
// deactivated, never deleted.
type Validator struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UID        int        `gorm:"column:uid;unique" json:"uid"`
	Name       string     `gorm:"index" json:"name"`
	Hotkey     string     `gorm:"unique;index" json:"hotkey"`
	IP         string     `gorm:"type:varchar(64)" json:"ip"`
	Port       int        `json:"port"`
	LastPicked *time.Time `json:"last_picked,omitempty"`
	IsActive   bool       `json:"is_active"`
}

func (v *Validator) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return
}
