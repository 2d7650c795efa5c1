package handler

import (
	"errors"
	"net/http"

	"togedr/backend/internal/activity"
	"togedr/backend/internal/chathub"
	"togedr/backend/internal/storage"
	"togedr/backend/internal/swipe"

	"github.com/gin-gonic/gin"
)

// Handler bundles the services the HTTP layer dispatches into.
type Handler struct {
	Hub        *chathub.ManagerService
	Storage    storage.Storage
	Activities *activity.Service
	Swipes     *swipe.Service
}

func NewHandler(hub *chathub.ManagerService, s storage.Storage, activities *activity.Service, swipes *swipe.Service) *Handler {
	return &Handler{
		Hub:        hub,
		Storage:    s,
		Activities: activities,
		Swipes:     swipes,
	}
}

// fail maps a service error to a stable status code plus a human-readable
// message. Validation failures are client errors and are never retried;
// everything unrecognized is a server error.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, activity.ErrNotCreator):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
	case errors.Is(err, swipe.ErrNotMember):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, activity.ErrAlreadyMember),
		errors.Is(err, activity.ErrInvalidState),
		errors.Is(err, activity.ErrCreatorLeave),
		errors.Is(err, storage.ErrDuplicateSwipe),
		errors.Is(err, swipe.ErrNotCompleted),
		errors.Is(err, swipe.ErrSelfSwipe),
		errors.Is(err, swipe.ErrBadDecision):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}
