package swipe_test

import (
	"togedr/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) CreateRoom(room *models.ChatRoom) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockStorage) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) GetRoomByMatchKey(key string) (*models.ChatRoom, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) SetRoomActivity(roomID, activityID string) error {
	args := m.Called(roomID, activityID)
	return args.Error(0)
}

func (m *MockStorage) AddRoomParticipant(roomID, userID string) error {
	args := m.Called(roomID, userID)
	return args.Error(0)
}

func (m *MockStorage) RemoveRoomParticipant(roomID, userID string) error {
	args := m.Called(roomID, userID)
	return args.Error(0)
}

func (m *MockStorage) ListRooms() ([]models.ChatRoom, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatRoom), args.Error(1)
}

func (m *MockStorage) IsRoomParticipant(roomID, userID string) (bool, error) {
	args := m.Called(roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) CreateActivity(activity *models.Activity) error {
	args := m.Called(activity)
	return args.Error(0)
}

func (m *MockStorage) GetActivityByID(id string) (*models.Activity, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Activity), args.Error(1)
}

func (m *MockStorage) SaveActivity(activity *models.Activity) error {
	args := m.Called(activity)
	return args.Error(0)
}

func (m *MockStorage) DeleteActivity(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) ListActivities() ([]models.Activity, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Activity), args.Error(1)
}

func (m *MockStorage) ListUpcomingNear(lng, lat, radiusMeters float64) ([]models.Activity, error) {
	args := m.Called(lng, lat, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Activity), args.Error(1)
}

func (m *MockStorage) ListRecommended(userID string, interests []string) ([]models.Activity, error) {
	args := m.Called(userID, interests)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Activity), args.Error(1)
}

func (m *MockStorage) AddActivityMember(activityID, userID string) (bool, error) {
	args := m.Called(activityID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) RemoveActivityMember(activityID, userID string) error {
	args := m.Called(activityID, userID)
	return args.Error(0)
}

func (m *MockStorage) SetActivityStatus(activityID, from, to string) (bool, error) {
	args := m.Called(activityID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) CreateSwipe(swipe *models.Swipe) error {
	args := m.Called(swipe)
	return args.Error(0)
}

func (m *MockStorage) FindReciprocalYes(activityID, swiperID, swipedID string) (bool, error) {
	args := m.Called(activityID, swiperID, swipedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) SaveMessage(msg *models.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetRoomMessages(roomID string) ([]models.ChatMessage, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

func (m *MockStorage) PublishMessage(roomID string, msg models.ChatMessage) error {
	args := m.Called(roomID, msg)
	return args.Error(0)
}

func (m *MockStorage) SubscribeRooms() *redis.PubSub {
	// Tests never attach a live pub/sub listener.
	return nil
}
