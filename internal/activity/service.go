// Package activity owns the activity lifecycle state machine and keeps the
// group chat room's participant set in lockstep with the roster.
package activity

import (
	"errors"
	"fmt"
	"log"
	"time"

	"togedr/backend/internal/config"
	"togedr/backend/internal/models"
	"togedr/backend/internal/storage"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// ErrAlreadyMember is returned for a redundant join.
	ErrAlreadyMember = errors.New("already a member")
	// ErrNotCreator is returned when a creator-only operation is attempted by
	// someone else.
	ErrNotCreator = errors.New("user not authorized")
	// ErrInvalidState is returned for lifecycle or membership changes on an
	// activity that has reached a terminal state.
	ErrInvalidState = errors.New("activity is no longer accepting changes")
	// ErrCreatorLeave guards the roster-never-empty invariant.
	ErrCreatorLeave = errors.New("creator cannot leave their own activity")
)

// Service handles the business logic for activities.
type Service struct {
	Storage storage.Storage
}

// NewService creates a new activity service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// CreateInput carries the creator-supplied fields of a new activity.
type CreateInput struct {
	Title        string
	Description  string
	Tag          string
	Time         time.Time
	LocationName string
	Lng          float64
	Lat          float64
	ImageURL     string
}

// Create allocates the group chat room first, then the activity referencing
// it, then backfills the room's activity reference. If activity creation
// fails the room is left as acceptable garbage (the reconcile CLI lists such
// orphans).
func (s *Service) Create(creatorID string, input CreateInput) (*models.Activity, error) {
	room := &models.ChatRoom{
		RoomID:       uuid.New().String(),
		Participants: pq.StringArray{creatorID},
	}
	if err := s.Storage.CreateRoom(room); err != nil {
		return nil, fmt.Errorf("create group room: %w", err)
	}

	activity := &models.Activity{
		Title:        input.Title,
		Description:  input.Description,
		Tag:          input.Tag,
		Time:         input.Time,
		LocationName: input.LocationName,
		Lng:          input.Lng,
		Lat:          input.Lat,
		ImageURL:     input.ImageURL,
		CreatorID:    creatorID,
		Members:      pq.StringArray{creatorID},
		Status:       models.StatusUpcoming,
		ChatRoomID:   room.RoomID,
	}
	if err := s.Storage.CreateActivity(activity); err != nil {
		log.Printf("WARNING: Orphaned room %s left behind after failed activity create: %v", room.RoomID, err)
		return nil, fmt.Errorf("create activity: %w", err)
	}

	if err := s.Storage.SetRoomActivity(room.RoomID, activity.ID); err != nil {
		if err = s.Storage.SetRoomActivity(room.RoomID, activity.ID); err != nil {
			// The activity is usable without the back-reference; the
			// reconcile CLI repairs the link.
			log.Printf("WARNING: Room %s missing activity back-reference to %s: %v", room.RoomID, activity.ID, err)
		}
	}
	return activity, nil
}

// Get returns the activity or storage.ErrNotFound.
func (s *Service) Get(activityID string) (*models.Activity, error) {
	return s.Storage.GetActivityByID(activityID)
}

// ListNearby returns upcoming activities around a point, nearest first.
func (s *Service) ListNearby(lng, lat float64) ([]models.Activity, error) {
	return s.Storage.ListUpcomingNear(lng, lat, config.NearbyRadiusMeters)
}

// ListAll returns every activity, newest first.
func (s *Service) ListAll() ([]models.Activity, error) {
	return s.Storage.ListActivities()
}

// Recommended returns upcoming activities tagged with one of the user's
// interests, excluding their own posts.
func (s *Service) Recommended(userID string) ([]models.Activity, error) {
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	return s.Storage.ListRecommended(userID, user.Interests)
}

// Join adds the user to the roster and to the group room. Both records must
// end up updated; a room-side failure is retried once and then surfaced, not
// swallowed, so the caller can retry until the two converge.
func (s *Service) Join(activityID, userID string) (*models.Activity, error) {
	activity, err := s.Storage.GetActivityByID(activityID)
	if err != nil {
		return nil, err
	}
	if activity.Terminal() {
		return nil, ErrInvalidState
	}
	if activity.HasMember(userID) {
		return nil, ErrAlreadyMember
	}

	added, err := s.Storage.AddActivityMember(activityID, userID)
	if err != nil {
		return nil, err
	}
	if !added {
		// Lost a race: either this user joined concurrently or the activity
		// just left the upcoming state.
		refreshed, err := s.Storage.GetActivityByID(activityID)
		if err != nil {
			return nil, err
		}
		if refreshed.Terminal() {
			return nil, ErrInvalidState
		}
		return nil, ErrAlreadyMember
	}

	if err := s.syncRoomAdd(activity.ChatRoomID, userID); err != nil {
		return nil, fmt.Errorf("sync group room for activity %s: %w", activityID, err)
	}
	return s.Storage.GetActivityByID(activityID)
}

// Leave removes the user from the roster and the group room. Leaving an
// activity the user is not part of is a no-op; the creator may never leave.
func (s *Service) Leave(activityID, userID string) (*models.Activity, error) {
	activity, err := s.Storage.GetActivityByID(activityID)
	if err != nil {
		return nil, err
	}
	if activity.Terminal() {
		return nil, ErrInvalidState
	}
	if activity.CreatorID == userID {
		return nil, ErrCreatorLeave
	}

	if err := s.Storage.RemoveActivityMember(activityID, userID); err != nil {
		return nil, err
	}
	if err := s.syncRoomRemove(activity.ChatRoomID, userID); err != nil {
		return nil, fmt.Errorf("sync group room for activity %s: %w", activityID, err)
	}
	return s.Storage.GetActivityByID(activityID)
}

// Complete transitions upcoming -> completed. Creator only; completed and
// cancelled are absorbing, so a repeated call fails with ErrInvalidState.
func (s *Service) Complete(activityID, callerID string) (*models.Activity, error) {
	return s.transition(activityID, callerID, models.StatusCompleted)
}

// Cancel transitions upcoming -> cancelled. Creator only.
func (s *Service) Cancel(activityID, callerID string) (*models.Activity, error) {
	return s.transition(activityID, callerID, models.StatusCancelled)
}

func (s *Service) transition(activityID, callerID, to string) (*models.Activity, error) {
	activity, err := s.Storage.GetActivityByID(activityID)
	if err != nil {
		return nil, err
	}
	if activity.CreatorID != callerID {
		return nil, ErrNotCreator
	}
	moved, err := s.Storage.SetActivityStatus(activityID, models.StatusUpcoming, to)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidState
	}
	activity.Status = to
	return activity, nil
}

// Patch carries a partial update; zero-valued fields leave the stored value
// untouched. Coordinates travel as a pair since zero is a valid coordinate.
type Patch struct {
	Title        string
	Description  string
	Tag          string
	Time         time.Time
	LocationName string
	Lng          *float64
	Lat          *float64
	ImageURL     string
}

// Update applies a partial update. Creator only.
func (s *Service) Update(activityID, callerID string, patch Patch) (*models.Activity, error) {
	activity, err := s.Storage.GetActivityByID(activityID)
	if err != nil {
		return nil, err
	}
	if activity.CreatorID != callerID {
		return nil, ErrNotCreator
	}

	if patch.Title != "" {
		activity.Title = patch.Title
	}
	if patch.Description != "" {
		activity.Description = patch.Description
	}
	if patch.Tag != "" {
		activity.Tag = patch.Tag
	}
	if !patch.Time.IsZero() {
		activity.Time = patch.Time
	}
	if patch.LocationName != "" {
		activity.LocationName = patch.LocationName
	}
	if patch.Lng != nil && patch.Lat != nil {
		activity.Lng = *patch.Lng
		activity.Lat = *patch.Lat
	}
	if patch.ImageURL != "" {
		activity.ImageURL = patch.ImageURL
	}

	if err := s.Storage.SaveActivity(activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// Delete removes the activity. Creator only. The group room is intentionally
// left in place, matching the historic behavior; the reconcile CLI reports it
// as an orphan.
func (s *Service) Delete(activityID, callerID string) error {
	activity, err := s.Storage.GetActivityByID(activityID)
	if err != nil {
		return err
	}
	if activity.CreatorID != callerID {
		return ErrNotCreator
	}
	return s.Storage.DeleteActivity(activityID)
}

func (s *Service) syncRoomAdd(roomID, userID string) error {
	if err := s.Storage.AddRoomParticipant(roomID, userID); err != nil {
		log.Printf("WARNING: Retrying participant add for room %s user %s: %v", roomID, userID, err)
		return s.Storage.AddRoomParticipant(roomID, userID)
	}
	return nil
}

func (s *Service) syncRoomRemove(roomID, userID string) error {
	if err := s.Storage.RemoveRoomParticipant(roomID, userID); err != nil {
		log.Printf("WARNING: Retrying participant remove for room %s user %s: %v", roomID, userID, err)
		return s.Storage.RemoveRoomParticipant(roomID, userID)
	}
	return nil
}
