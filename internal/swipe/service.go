// Package swipe records post-activity swipe decisions and detects mutual
// matches. The ledger's unique (activity, swiper, swiped) constraint is the
// only concurrency control: whoever lands the second distinct-direction "yes"
// observes the reciprocal row and provisions the private room, so exactly one
// room exists per matched pair per activity.
package swipe

import (
	"errors"
	"fmt"
	"log"

	"togedr/backend/internal/models"
	"togedr/backend/internal/storage"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// ErrNotCompleted gates swiping to completed activities.
	ErrNotCompleted = errors.New("swiping is only allowed for completed activities")
	// ErrNotMember is returned unless both parties were on the roster.
	ErrNotMember = errors.New("both users must be members of the activity")
	// ErrSelfSwipe rejects a decision about oneself.
	ErrSelfSwipe = errors.New("cannot swipe on yourself")
	// ErrBadDecision rejects anything but yes/no.
	ErrBadDecision = errors.New("decision must be yes or no")
)

// Notifier pushes realtime events to a user's live connection, if any.
// Delivery is best-effort.
type Notifier interface {
	NotifyUser(userID string, msg models.ChatMessage)
}

// Service is the swipe ledger front and match engine.
type Service struct {
	Storage  storage.Storage
	Notifier Notifier
}

// NewService creates a new swipe service. notifier may be nil.
func NewService(s storage.Storage, notifier Notifier) *Service {
	return &Service{Storage: s, Notifier: notifier}
}

// Result is the client-facing outcome of a swipe submission.
type Result struct {
	Matched    bool   `json:"match"`
	ChatRoomID string `json:"chatRoomId,omitempty"`
}

// Submit validates, records the decision, and on a reciprocal "yes" provisions
// the private chat room. The reciprocal lookup runs only after the decision is
// durably inserted; the unique constraint guarantees at most one of the two
// directions ever sees the other side already present.
func (s *Service) Submit(activityID, swiperID, swipedID, decision string) (*Result, error) {
	if !models.ValidDecision(decision) {
		return nil, ErrBadDecision
	}
	if swiperID == swipedID {
		return nil, ErrSelfSwipe
	}

	activity, err := s.Storage.GetActivityByID(activityID)
	if err != nil {
		return nil, err
	}
	if activity.Status != models.StatusCompleted {
		return nil, ErrNotCompleted
	}
	if !activity.HasMember(swiperID) || !activity.HasMember(swipedID) {
		return nil, ErrNotMember
	}

	err = s.Storage.CreateSwipe(&models.Swipe{
		ActivityID: activityID,
		SwiperID:   swiperID,
		SwipedID:   swipedID,
		Decision:   decision,
	})
	if err != nil {
		return nil, err
	}

	if decision == models.DecisionNo {
		return &Result{Matched: false}, nil
	}

	reciprocal, err := s.Storage.FindReciprocalYes(activityID, swiperID, swipedID)
	if err != nil {
		return nil, fmt.Errorf("reciprocal lookup: %w", err)
	}
	if !reciprocal {
		return &Result{Matched: false}, nil
	}

	room, err := s.provisionMatchRoom(activityID, swiperID, swipedID)
	if err != nil {
		// The swipe is recorded; only the room is missing. Resubmission would
		// hit DuplicateSwipe, so this surfaces as a server error and the
		// keyed create below makes a retry of room creation idempotent.
		return nil, fmt.Errorf("create match room: %w", err)
	}

	s.notifyMatch(room, swiperID, swipedID)
	return &Result{Matched: true, ChatRoomID: room.RoomID}, nil
}

// provisionMatchRoom creates the two-party private room keyed by the sorted
// pair and activity. Losing the duplicate-key race means the counterpart
// submission (or a retry) already created it; the existing room is returned.
func (s *Service) provisionMatchRoom(activityID, userA, userB string) (*models.ChatRoom, error) {
	key := models.MatchKeyFor(activityID, userA, userB)
	room := &models.ChatRoom{
		RoomID:       uuid.New().String(),
		MatchKey:     &key,
		Participants: pq.StringArray{userA, userB},
	}
	err := s.Storage.CreateRoom(room)
	if errors.Is(err, storage.ErrDuplicateRoom) {
		return s.Storage.GetRoomByMatchKey(key)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("INFO: Match confirmed for activity %s: %s and %s in room %s", activityID, userA, userB, room.RoomID)
	return room, nil
}

func (s *Service) notifyMatch(room *models.ChatRoom, userA, userB string) {
	if s.Notifier == nil {
		return
	}
	event := models.ChatMessage{
		Type:   models.EventMatchFound,
		RoomID: room.RoomID,
		Text:   "It's a match! Say hello.",
	}
	s.Notifier.NotifyUser(userA, event)
	s.Notifier.NotifyUser(userB, event)
}
