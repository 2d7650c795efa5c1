package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User is the identity record the rest of the system references by ID.
// Credential storage and profile editing live outside this service; only the
// fields the activity feed and chat layer need are kept here.
type User struct {
	ID                string         `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"not null" json:"name"`
	ProfilePictureURL string         `json:"profile_picture_url,omitempty"`
	Interests         pq.StringArray `gorm:"type:text[]" json:"interests"`
}

// BeforeCreate is a GORM hook that assigns a fresh UUID when the ID is unset.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
