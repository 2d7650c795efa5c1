package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"togedr/backend/internal/config"
	"togedr/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Service implements Storage on top of PostgreSQL (GORM) and Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService constructs the persistence service. The GORM handle is
// expected to be opened with TranslateError so unique-constraint violations
// surface as gorm.ErrDuplicatedKey.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// --- Users ---

func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Chat rooms ---

func (s *Service) CreateRoom(room *models.ChatRoom) error {
	if err := s.DB.Create(room).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRoom
		}
		return err
	}
	return nil
}

func (s *Service) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.First(&room, "room_id = ?", roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %s: %v", roomID, err)
		return nil, err
	}
	return &room, nil
}

func (s *Service) GetRoomByMatchKey(key string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.First(&room, "match_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Service) SetRoomActivity(roomID, activityID string) error {
	return s.DB.Model(&models.ChatRoom{}).
		Where("room_id = ?", roomID).
		Update("activity_id", activityID).Error
}

// AddRoomParticipant adds userID to the room's participant set. The guard in
// the WHERE clause makes it a set-add: running it twice is a no-op.
func (s *Service) AddRoomParticipant(roomID, userID string) error {
	return s.DB.Model(&models.ChatRoom{}).
		Where("room_id = ? AND NOT (? = ANY(participants))", roomID, userID).
		Update("participants", gorm.Expr("array_append(participants, ?)", userID)).Error
}

// RemoveRoomParticipant removes userID from the room's participant set.
// Removing an absent participant is a no-op.
func (s *Service) RemoveRoomParticipant(roomID, userID string) error {
	return s.DB.Model(&models.ChatRoom{}).
		Where("room_id = ?", roomID).
		Update("participants", gorm.Expr("array_remove(participants, ?)", userID)).Error
}

func (s *Service) ListRooms() ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	if err := s.DB.Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *Service) IsRoomParticipant(roomID, userID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.ChatRoom{}).
		Where("room_id = ? AND ? = ANY(participants)", roomID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// --- Activities ---

func (s *Service) CreateActivity(activity *models.Activity) error {
	return s.DB.Create(activity).Error
}

func (s *Service) GetActivityByID(id string) (*models.Activity, error) {
	var activity models.Activity
	err := s.DB.First(&activity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (s *Service) SaveActivity(activity *models.Activity) error {
	return s.DB.Save(activity).Error
}

func (s *Service) DeleteActivity(id string) error {
	return s.DB.Delete(&models.Activity{}, "id = ?", id).Error
}

func (s *Service) ListActivities() ([]models.Activity, error) {
	var activities []models.Activity
	if err := s.DB.Order("created_at desc").Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// ListUpcomingNear is the black-box nearest-neighbor lookup: upcoming
// activities within radiusMeters of the point, nearest first. Great-circle
// distance is computed in SQL (haversine), good enough at city scale.
func (s *Service) ListUpcomingNear(lng, lat, radiusMeters float64) ([]models.Activity, error) {
	const nearSQL = `
		SELECT *, (6371000 * acos(least(1.0,
			cos(radians(?)) * cos(radians(lat)) * cos(radians(lng) - radians(?)) +
			sin(radians(?)) * sin(radians(lat))
		))) AS distance
		FROM activities
		WHERE status = ?
		ORDER BY distance ASC
	`
	var activities []models.Activity
	err := s.DB.Raw(nearSQL, lat, lng, lat, models.StatusUpcoming).Scan(&activities).Error
	if err != nil {
		log.Printf("ERROR: Nearby activity query failed: %v", err)
		return nil, err
	}
	// Radius filter applied here to keep the SQL portable across the distance alias.
	filtered := activities[:0]
	for _, a := range activities {
		if withinRadius(lng, lat, a.Lng, a.Lat, radiusMeters) {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (s *Service) ListRecommended(userID string, interests []string) ([]models.Activity, error) {
	if len(interests) == 0 {
		return []models.Activity{}, nil
	}
	var activities []models.Activity
	err := s.DB.Where("status = ? AND tag IN ? AND creator_id <> ?",
		models.StatusUpcoming, interests, userID).
		Order("created_at desc").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// AddActivityMember appends userID to the roster in a single guarded UPDATE:
// only while the activity is upcoming and only if the user is not already a
// member. Returns false when the row was left untouched, so concurrent joins
// for the same user have exactly one winner.
func (s *Service) AddActivityMember(activityID, userID string) (bool, error) {
	res := s.DB.Model(&models.Activity{}).
		Where("id = ? AND status = ? AND NOT (? = ANY(members))",
			activityID, models.StatusUpcoming, userID).
		Update("members", gorm.Expr("array_append(members, ?)", userID))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RemoveActivityMember removes userID from the roster while upcoming.
// Removing an absent member is a no-op.
func (s *Service) RemoveActivityMember(activityID, userID string) error {
	return s.DB.Model(&models.Activity{}).
		Where("id = ? AND status = ?", activityID, models.StatusUpcoming).
		Update("members", gorm.Expr("array_remove(members, ?)", userID)).Error
}

// SetActivityStatus performs the lifecycle transition from -> to as one
// conditional UPDATE. Returns false when no row matched, i.e. the activity is
// absent or already out of the from state.
func (s *Service) SetActivityStatus(activityID, from, to string) (bool, error) {
	res := s.DB.Model(&models.Activity{}).
		Where("id = ? AND status = ?", activityID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// --- Swipe ledger ---

// CreateSwipe appends one decision to the ledger. The composite unique index
// on (activity, swiper, swiped) rejects a second decision for the same triple;
// that rejection is surfaced as ErrDuplicateSwipe and is the serialization
// point for match detection.
func (s *Service) CreateSwipe(swipe *models.Swipe) error {
	if err := s.DB.Create(swipe).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSwipe
		}
		return err
	}
	return nil
}

// FindReciprocalYes reports whether the swiped-on user already said yes to the
// swiper within the same activity.
func (s *Service) FindReciprocalYes(activityID, swiperID, swipedID string) (bool, error) {
	var swipe models.Swipe
	err := s.DB.Where("activity_id = ? AND swiper_id = ? AND swiped_id = ? AND decision = ?",
		activityID, swipedID, swiperID, models.DecisionYes).
		First(&swipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// --- Messages ---

// SaveMessage appends the message to the room's log and backfills the
// generated ID and timestamp into the envelope so it can be published as-is.
func (s *Service) SaveMessage(msg *models.ChatMessage) error {
	record := models.Message{
		RoomID:   msg.RoomID,
		SenderID: msg.SenderID,
		Text:     msg.Text,
	}
	if err := s.DB.Create(&record).Error; err != nil {
		log.Printf("ERROR: Failed to save message for room %s: %v", msg.RoomID, err)
		return err
	}
	msg.ID = record.ID
	msg.Timestamp = record.CreatedAt
	return nil
}

// GetRoomMessages returns the room's full log in append order.
func (s *Service) GetRoomMessages(roomID string) ([]models.ChatMessage, error) {
	var records []models.Message
	if err := s.DB.Where("room_id = ?", roomID).Order("id asc").Find(&records).Error; err != nil {
		log.Printf("ERROR: Failed to get chat history for room %s: %v", roomID, err)
		return nil, err
	}
	messages := make([]models.ChatMessage, 0, len(records))
	for _, r := range records {
		messages = append(messages, models.ChatMessage{
			ID:        r.ID,
			Type:      models.EventText,
			RoomID:    r.RoomID,
			SenderID:  r.SenderID,
			Text:      r.Text,
			Timestamp: r.CreatedAt,
		})
	}
	return messages, nil
}

// --- Realtime fan-out ---

// PublishMessage broadcasts the envelope on the room's Redis channel so every
// hub instance can deliver it to its local subscribers.
func (s *Service) PublishMessage(roomID string, msg models.ChatMessage) error {
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, config.RoomChannelPrefix+roomID, msgBytes).Err()
}

// SubscribeRooms pattern-subscribes to every room channel.
func (s *Service) SubscribeRooms() *redis.PubSub {
	return s.Redis.PSubscribe(s.Ctx, config.RoomChannelPrefix+"*")
}
