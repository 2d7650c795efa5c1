package chathub

import (
	"log"

	"togedr/backend/internal/config"
	"togedr/backend/internal/models"
	"togedr/backend/internal/storage"
)

// Subscription associates a live connection with a room.
type Subscription struct {
	Client Client
	RoomID string
}

type directedMessage struct {
	UserID string
	Msg    models.ChatMessage
}

// ManagerService is the realtime broadcaster. One goroutine (Run) owns the
// connection registry and the room subscription map; every mutation and
// delivery goes through its channels, so no locks are needed.
type ManagerService struct {
	// Clients indexes connections by user, Rooms by subscription. Both are
	// touched only from the Run loop.
	Clients map[string]Client
	Rooms   map[string]map[Client]bool

	IncomingCh   chan models.ChatMessage
	SubscribeCh  chan Subscription
	RegisterCh   chan Client
	UnregisterCh chan Client
	// PubSubCh receives every message published on the room channels,
	// including this instance's own.
	PubSubCh chan models.ChatMessage
	notifyCh chan directedMessage

	Storage storage.Storage

	registered map[Client]bool
}

// NewManagerService constructs the hub around a storage backend.
func NewManagerService(s storage.Storage) *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		Rooms:        make(map[string]map[Client]bool),
		IncomingCh:   make(chan models.ChatMessage),
		SubscribeCh:  make(chan Subscription),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		PubSubCh:     make(chan models.ChatMessage),
		notifyCh:     make(chan directedMessage, config.NotifyBuffer),
		Storage:      s,
		registered:   make(map[Client]bool),
	}
}

// Run is the hub's main dispatcher. Start it once, as a goroutine.
func (m *ManagerService) Run() {
	for {
		select {
		case client := <-m.RegisterCh:
			m.register(client)
		case client := <-m.UnregisterCh:
			m.unregister(client)
		case sub := <-m.SubscribeCh:
			m.subscribe(sub)
		case msg := <-m.IncomingCh:
			m.handleIncoming(msg)
		case msg := <-m.PubSubCh:
			m.deliver(msg)
		case d := <-m.notifyCh:
			m.handleNotify(d)
		}
	}
}

// NotifyUser pushes an event to a user's live connection if one is attached
// to this instance. Best-effort: silently dropped when the hub is saturated
// or the user is offline. Safe to call from any goroutine.
func (m *ManagerService) NotifyUser(userID string, msg models.ChatMessage) {
	select {
	case m.notifyCh <- directedMessage{UserID: userID, Msg: msg}:
	default:
		log.Printf("WARNING: Notify queue full, dropping %s event for %s", msg.Type, userID)
	}
}

func (m *ManagerService) register(client Client) {
	if old, ok := m.Clients[client.GetUserID()]; ok && old != client {
		m.unregister(old)
	}
	m.Clients[client.GetUserID()] = client
	m.registered[client] = true
}

func (m *ManagerService) unregister(client Client) {
	if !m.registered[client] {
		return
	}
	delete(m.registered, client)
	if m.Clients[client.GetUserID()] == client {
		delete(m.Clients, client.GetUserID())
	}
	for roomID, subs := range m.Rooms {
		delete(subs, client)
		if len(subs) == 0 {
			delete(m.Rooms, roomID)
		}
	}
	client.Close()
}

func (m *ManagerService) subscribe(sub Subscription) {
	if !m.registered[sub.Client] {
		return
	}
	if m.Rooms[sub.RoomID] == nil {
		m.Rooms[sub.RoomID] = make(map[Client]bool)
	}
	m.Rooms[sub.RoomID][sub.Client] = true
}

// handleIncoming persists a message posted over a live connection and
// publishes it for fan-out. Senders must be room participants; the append is
// the durable, ordered record, the broadcast is fire-and-forget.
func (m *ManagerService) handleIncoming(msg models.ChatMessage) {
	ok, err := m.Storage.IsRoomParticipant(msg.RoomID, msg.SenderID)
	if err != nil {
		log.Printf("ERROR: Participant check failed for room %s: %v", msg.RoomID, err)
		return
	}
	if !ok {
		log.Printf("WARNING: Dropping message from non-participant %s for room %s", msg.SenderID, msg.RoomID)
		return
	}
	if err := m.Storage.SaveMessage(&msg); err != nil {
		log.Printf("ERROR: Dropping message for room %s, save failed: %v", msg.RoomID, err)
		return
	}
	if err := m.Storage.PublishMessage(msg.RoomID, msg); err != nil {
		log.Printf("ERROR: Failed to publish message %d for room %s: %v", msg.ID, msg.RoomID, err)
	}
}

// deliver fans a published message out to this instance's subscribers of the
// room. A client whose outbound queue is full is disconnected rather than
// allowed to stall the hub.
func (m *ManagerService) deliver(msg models.ChatMessage) {
	for client := range m.Rooms[msg.RoomID] {
		select {
		case client.GetSendChannel() <- msg:
		default:
			log.Printf("WARNING: Dropping slow client %s", client.GetUserID())
			m.unregister(client)
		}
	}
}

func (m *ManagerService) handleNotify(d directedMessage) {
	client, ok := m.Clients[d.UserID]
	if !ok {
		return
	}
	select {
	case client.GetSendChannel() <- d.Msg:
	default:
	}
}
