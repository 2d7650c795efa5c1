package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type swipeRequest struct {
	ActivityID string `json:"activityId" binding:"required"`
	SwipedID   string `json:"swipedId" binding:"required"`
	Decision   string `json:"decision" binding:"required"`
}

// SubmitSwipe records one decision and reports whether it completed a match.
// On a match the response carries the freshly provisioned private room ID.
func (h *Handler) SubmitSwipe(c *gin.Context) {
	var req swipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Swipes.Submit(req.ActivityID, callerID(c), req.SwipedID, req.Decision)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
