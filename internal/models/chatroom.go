package models

import (
	"time"

	"github.com/lib/pq"
)

// ChatRoom is a communication channel. Group rooms carry the ID of the
// activity they belong to and their participant set tracks the activity
// roster. Private rooms (ActivityID nil) are created by the match engine for
// exactly two participants and never change membership.
type ChatRoom struct {
	RoomID     string  `gorm:"primaryKey" json:"room_id"`
	ActivityID *string `gorm:"index" json:"activity_id,omitempty"`
	// MatchKey makes private room creation idempotent: one room per matched
	// pair per activity, enforced by the unique index.
	MatchKey     *string        `gorm:"uniqueIndex" json:"-"`
	Participants pq.StringArray `gorm:"type:text[]" json:"participants"`
	CreatedAt    time.Time      `json:"created_at"`
}

// HasParticipant reports whether userID belongs to the room.
func (r *ChatRoom) HasParticipant(userID string) bool {
	for _, p := range r.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// IsPrivate reports whether the room is a two-party match room.
func (r *ChatRoom) IsPrivate() bool {
	return r.ActivityID == nil
}

// MatchKeyFor builds the canonical key for a matched pair within an activity.
// The pair is ordered so both swipe directions produce the same key.
func MatchKeyFor(activityID, userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return activityID + ":" + userA + ":" + userB
}
