package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Activity lifecycle states. An activity is created upcoming and moves to
// exactly one of the terminal states; both are absorbing.
const (
	StatusUpcoming  = "upcoming"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Activity represents a user-posted real-world event with a roster.
// Members holds user IDs; the creator is always the first member and every
// activity owns exactly one group ChatRoom, created alongside it.
type Activity struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Tag          string         `gorm:"index;not null" json:"tag"`
	Time         time.Time      `json:"time"`
	LocationName string         `json:"location_name,omitempty"`
	Lng          float64        `json:"lng"`
	Lat          float64        `json:"lat"`
	ImageURL     string         `json:"image_url,omitempty"`
	CreatorID    string         `gorm:"index;not null" json:"creator_id"`
	Members      pq.StringArray `gorm:"type:text[]" json:"members"`
	Status       string         `gorm:"index;not null;default:'upcoming'" json:"status"`
	ChatRoomID   string         `gorm:"index" json:"chat_room_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a fresh UUID when the ID is unset.
func (a *Activity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

// HasMember reports whether userID is on the roster.
func (a *Activity) HasMember(userID string) bool {
	for _, m := range a.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// Terminal reports whether the activity has reached an absorbing state.
func (a *Activity) Terminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled
}
