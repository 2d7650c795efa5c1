package models

import "time"

// Realtime event types carried over WebSocket and Redis pub/sub.
const (
	EventText       = "text"        // a chat message
	EventJoinRoom   = "join_room"   // client -> server: subscribe to a room
	EventMatchFound = "match_found" // server -> client: a private room was created
)

// ChatMessage is the wire envelope for the realtime channel. For EventText it
// mirrors a persisted Message; for control events only Type, RoomID and Text
// are meaningful.
type ChatMessage struct {
	ID        uint      `json:"id,omitempty"`
	Type      string    `json:"type"`
	RoomID    string    `json:"room_id"`
	SenderID  string    `json:"sender_id,omitempty"`
	Text      string    `json:"text,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}
