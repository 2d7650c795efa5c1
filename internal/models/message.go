package models

import "gorm.io/gorm"

// Message is one entry in a room's append-only log. The embedded gorm.Model
// provides the auto-increment ID whose order is the authoritative message
// order within a room, and CreatedAt serves as the timestamp.
type Message struct {
	gorm.Model

	RoomID   string `gorm:"not null;index:idx_room_msg"`
	SenderID string `gorm:"not null;index:idx_room_msg"`
	Text     string `gorm:"type:text;not null"`
}
