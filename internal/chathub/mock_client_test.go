package chathub_test

import "togedr/backend/internal/models"

// MockClient is a test double for the chathub.Client interface. RecvChannel
// is what the hub sees as the client's send channel.
type MockClient struct {
	userID      string
	RecvChannel chan models.ChatMessage
	closed      bool
}

func newMockClient(userID string) *MockClient {
	return newMockClientBuffered(userID, 10)
}

// newMockClientBuffered allows a zero buffer to simulate a stalled client.
func newMockClientBuffered(userID string, buffer int) *MockClient {
	return &MockClient{
		userID:      userID,
		RecvChannel: make(chan models.ChatMessage, buffer),
	}
}

func (c *MockClient) GetUserID() string {
	return c.userID
}

func (c *MockClient) GetSendChannel() chan<- models.ChatMessage {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	if !c.closed {
		c.closed = true
		close(c.RecvChannel)
	}
}

// Received drains and returns everything delivered so far.
func (c *MockClient) Received() []models.ChatMessage {
	var messages []models.ChatMessage
	for {
		select {
		case msg, ok := <-c.RecvChannel:
			if !ok {
				return messages
			}
			messages = append(messages, msg)
		default:
			return messages
		}
	}
}
