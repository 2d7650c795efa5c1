package chathub

import "togedr/backend/internal/models"

// Client is the interface for one live connection. It abstracts the
// underlying transport so the hub can manage connections uniformly.
type Client interface {
	// GetUserID returns the authenticated user behind the connection.
	GetUserID() string

	// GetSendChannel returns the channel the hub writes outbound events to.
	// It is a send-only channel from the hub's point of view.
	GetSendChannel() chan<- models.ChatMessage

	// Run starts the connection's read and write pumps.
	Run()
	// Close shuts down the connection's outbound channel.
	Close()
}
