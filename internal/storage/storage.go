package storage

import (
	"errors"

	"togedr/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Sentinel errors the service layer dispatches on. The duplicate values are
// produced by translating the database's unique-constraint violations; they
// are the only concurrency-control signal the match path needs.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateSwipe = errors.New("swipe already recorded for this pair")
	ErrDuplicateRoom  = errors.New("room already exists for this match key")
)

// Storage is the persistence contract consumed by the activity, swipe and
// chathub services. The implementation must provide atomic single-row updates
// and unique-constrained inserts; everything above relies on that.
type Storage interface {
	// Users
	SaveUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)

	// Chat rooms
	CreateRoom(room *models.ChatRoom) error
	GetRoomByID(roomID string) (*models.ChatRoom, error)
	GetRoomByMatchKey(key string) (*models.ChatRoom, error)
	SetRoomActivity(roomID, activityID string) error
	AddRoomParticipant(roomID, userID string) error
	RemoveRoomParticipant(roomID, userID string) error
	ListRooms() ([]models.ChatRoom, error)
	IsRoomParticipant(roomID, userID string) (bool, error)

	// Activities
	CreateActivity(activity *models.Activity) error
	GetActivityByID(id string) (*models.Activity, error)
	SaveActivity(activity *models.Activity) error
	DeleteActivity(id string) error
	ListActivities() ([]models.Activity, error)
	ListUpcomingNear(lng, lat, radiusMeters float64) ([]models.Activity, error)
	ListRecommended(userID string, interests []string) ([]models.Activity, error)
	AddActivityMember(activityID, userID string) (bool, error)
	RemoveActivityMember(activityID, userID string) error
	SetActivityStatus(activityID, from, to string) (bool, error)

	// Swipe ledger
	CreateSwipe(swipe *models.Swipe) error
	FindReciprocalYes(activityID, swiperID, swipedID string) (bool, error)

	// Messages
	SaveMessage(msg *models.ChatMessage) error
	GetRoomMessages(roomID string) ([]models.ChatMessage, error)

	// Realtime fan-out
	PublishMessage(roomID string, msg models.ChatMessage) error
	SubscribeRooms() *redis.PubSub
}
