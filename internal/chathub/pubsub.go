package chathub

import (
	"encoding/json"
	"log"

	"togedr/backend/internal/models"
)

// StartPubSubListener starts the goroutine that bridges Redis pub/sub into
// the hub. Every message published on a room channel, by this instance or
// any other, lands on PubSubCh for local delivery.
func (m *ManagerService) StartPubSubListener() {
	go func() {
		pubsub := m.Storage.SubscribeRooms()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var chatMsg models.ChatMessage
			if err := json.Unmarshal([]byte(msg.Payload), &chatMsg); err != nil {
				log.Printf("ERROR: Unmarshalling pub/sub payload: %v", err)
				continue
			}
			m.PubSubCh <- chatMsg
		}
	}()
}
