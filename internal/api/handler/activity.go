package handler

import (
	"net/http"
	"strconv"
	"time"

	"togedr/backend/internal/activity"

	"github.com/gin-gonic/gin"
)

type createActivityRequest struct {
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description" binding:"required"`
	Tag          string    `json:"tag" binding:"required"`
	Time         time.Time `json:"time" binding:"required"`
	LocationName string    `json:"location_name"`
	Lng          float64   `json:"lng"`
	Lat          float64   `json:"lat"`
	ImageURL     string    `json:"image_url"`
}

// CreateActivity posts a new activity; the caller becomes creator and first
// member, and the group chat room comes into existence with it.
func (h *Handler) CreateActivity(c *gin.Context) {
	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.Activities.Create(callerID(c), activity.CreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Tag:          req.Tag,
		Time:         req.Time,
		LocationName: req.LocationName,
		Lng:          req.Lng,
		Lat:          req.Lat,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListActivities returns upcoming activities near lng/lat when coordinates
// are supplied, otherwise the full list newest-first.
func (h *Handler) ListActivities(c *gin.Context) {
	lngStr, latStr := c.Query("lng"), c.Query("lat")
	if lngStr == "" || latStr == "" {
		activities, err := h.Activities.ListAll()
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, activities)
		return
	}

	lng, errLng := strconv.ParseFloat(lngStr, 64)
	lat, errLat := strconv.ParseFloat(latStr, 64)
	if errLng != nil || errLat != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide numeric longitude and latitude"})
		return
	}
	activities, err := h.Activities.ListNearby(lng, lat)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

// Feed returns activities recommended from the caller's interests.
func (h *Handler) Feed(c *gin.Context) {
	activities, err := h.Activities.Recommended(callerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

// GetActivity fetches a single activity.
func (h *Handler) GetActivity(c *gin.Context) {
	found, err := h.Activities.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

type updateActivityRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Tag          string    `json:"tag"`
	Time         time.Time `json:"time"`
	LocationName string    `json:"location_name"`
	Lng          *float64  `json:"lng"`
	Lat          *float64  `json:"lat"`
	ImageURL     string    `json:"image_url"`
}

// UpdateActivity applies a partial update; omitted fields keep their values.
func (h *Handler) UpdateActivity(c *gin.Context) {
	var req updateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.Activities.Update(c.Param("id"), callerID(c), activity.Patch{
		Title:        req.Title,
		Description:  req.Description,
		Tag:          req.Tag,
		Time:         req.Time,
		LocationName: req.LocationName,
		Lng:          req.Lng,
		Lat:          req.Lat,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteActivity removes an activity. Creator only.
func (h *Handler) DeleteActivity(c *gin.Context) {
	if err := h.Activities.Delete(c.Param("id"), callerID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Activity removed"})
}

// JoinActivity adds the caller to the roster and the group room.
func (h *Handler) JoinActivity(c *gin.Context) {
	joined, err := h.Activities.Join(c.Param("id"), callerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, joined)
}

// LeaveActivity removes the caller from the roster and the group room.
func (h *Handler) LeaveActivity(c *gin.Context) {
	left, err := h.Activities.Leave(c.Param("id"), callerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, left)
}

// CompleteActivity marks the activity completed, enabling swiping.
func (h *Handler) CompleteActivity(c *gin.Context) {
	completed, err := h.Activities.Complete(c.Param("id"), callerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, completed)
}

// CancelActivity marks the activity cancelled.
func (h *Handler) CancelActivity(c *gin.Context) {
	cancelled, err := h.Activities.Cancel(c.Param("id"), callerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}
