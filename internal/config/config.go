package config

import "time"

const (
	// Discovery
	NearbyRadiusMeters = 10000 // default radius for the map/list feed

	// Auth
	TokenTTL    = 72 * time.Hour
	TokenIssuer = "togedr-service"

	// Realtime
	ClientSendBuffer = 256 // per-connection outbound queue
	NotifyBuffer     = 16  // hub-level direct notification queue

	// RoomChannelPrefix namespaces Redis pub/sub channels so the hub can
	// pattern-subscribe to chat traffic only.
	RoomChannelPrefix = "room:"
)
