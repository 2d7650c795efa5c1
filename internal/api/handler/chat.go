package handler

import (
	"log"
	"net/http"

	"togedr/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// getRoomForParticipant loads the room and enforces that the caller belongs
// to it. Both history reads and posts funnel through this check.
func (h *Handler) getRoomForParticipant(c *gin.Context) (*models.ChatRoom, bool) {
	room, err := h.Storage.GetRoomByID(c.Param("roomId"))
	if err != nil {
		fail(c, err)
		return nil, false
	}
	if !room.HasParticipant(callerID(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "User is not a participant of this chat"})
		return nil, false
	}
	return room, true
}

// GetChatRoom returns the room and its participant set.
func (h *Handler) GetChatRoom(c *gin.Context) {
	room, ok := h.getRoomForParticipant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, room)
}

// GetMessages returns the room's full message history in append order. A
// client fetches this once on entry and follows the live channel afterwards.
func (h *Handler) GetMessages(c *gin.Context) {
	room, ok := h.getRoomForParticipant(c)
	if !ok {
		return
	}
	messages, err := h.Storage.GetRoomMessages(room.RoomID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

type postMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// PostMessage appends a message over plain HTTP and broadcasts it to live
// subscribers, mirroring what the WebSocket path does.
func (h *Handler) PostMessage(c *gin.Context) {
	room, ok := h.getRoomForParticipant(c)
	if !ok {
		return
	}
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := models.ChatMessage{
		Type:     models.EventText,
		RoomID:   room.RoomID,
		SenderID: callerID(c),
		Text:     req.Text,
	}
	if err := h.Storage.SaveMessage(&msg); err != nil {
		fail(c, err)
		return
	}
	if err := h.Storage.PublishMessage(room.RoomID, msg); err != nil {
		// The append is durable; delivery is best-effort.
		log.Printf("WARNING: Failed to publish message for room %s: %v", room.RoomID, err)
	}
	c.JSON(http.StatusCreated, msg)
}
