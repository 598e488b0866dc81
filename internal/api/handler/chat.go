package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"civicvoice/backend/internal/auth"
	"civicvoice/backend/internal/models"
	"civicvoice/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

const defaultMessagePageSize = 50

// ListChatRooms returns the rooms where the caller is an active participant.
func (h *Handler) ListChatRooms(c *gin.Context) {
	identity := auth.CurrentIdentity(c)

	rooms, err := h.Storage.GetUserChatRooms(identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat rooms"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

type createRoomRequest struct {
	Name         string `json:"name" binding:"required"`
	ComplaintID  *uint  `json:"complaintId"`
	Participants []uint `json:"participants"`
}

// CreateChatRoom creates a room, adds the creator as admin and then any
// listed participants. The writes are independent single statements; a
// failure partway can leave a room without its admin.
func (h *Handler) CreateChatRoom(c *gin.Context) {
	identity := auth.CurrentIdentity(c)

	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	room := models.ChatRoom{Name: req.Name, ComplaintID: req.ComplaintID}
	if err := h.Storage.CreateChatRoom(&room); err != nil {
		log.Printf("Error creating chat room: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat room"})
		return
	}

	if _, err := h.Storage.AddParticipant(room.ID, identity.UserID, true); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat room"})
		return
	}

	for _, participantID := range req.Participants {
		if participantID == identity.UserID {
			continue
		}
		if _, err := h.Storage.AddParticipant(room.ID, participantID, false); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat room"})
			return
		}
	}

	c.JSON(http.StatusCreated, room)
}

// GetChatRoom returns one room by id.
func (h *Handler) GetChatRoom(c *gin.Context) {
	roomID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room ID is required"})
		return
	}

	room, err := h.Storage.GetRoomByID(roomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat room"})
		return
	}
	c.JSON(http.StatusOK, room)
}

// ListChatMessages marks everything not authored by the caller as read,
// then returns messages newest-first with sender identity attached.
func (h *Handler) ListChatMessages(c *gin.Context) {
	identity := auth.CurrentIdentity(c)

	roomID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room ID is required and must be a number"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultMessagePageSize)))
	if err != nil || limit <= 0 {
		limit = defaultMessagePageSize
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	if err := h.Storage.MarkMessagesRead(roomID, identity.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat messages"})
		return
	}

	messages, err := h.Storage.GetRoomMessages(roomID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

type postMessageRequest struct {
	Content        string  `json:"content"`
	AttachmentURL  *string `json:"attachmentUrl"`
	AttachmentType *string `json:"attachmentType"`
}

// PostChatMessage persists a message and returns it with the sender
// attached. Broadcasting over the socket transport is the client's separate
// emit; persistence and broadcast are not transactional with each other.
func (h *Handler) PostChatMessage(c *gin.Context) {
	identity := auth.CurrentIdentity(c)

	roomID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room ID is required and must be a number"})
		return
	}

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Content == "" && req.AttachmentURL == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content or attachment is required"})
		return
	}

	msg := models.ChatMessage{
		RoomID:         roomID,
		SenderID:       identity.UserID,
		Content:        req.Content,
		AttachmentURL:  req.AttachmentURL,
		AttachmentType: req.AttachmentType,
	}
	if err := h.Storage.SaveChatMessage(&msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send chat message"})
		return
	}

	c.JSON(http.StatusCreated, models.MessageWithSender{
		ChatMessage: msg,
		Sender: models.MessageSender{
			ID:    identity.UserID,
			Name:  identity.Name,
			Image: identity.Image,
		},
	})
}

// ListChatParticipants returns the room's active participants with profile
// fields.
func (h *Handler) ListChatParticipants(c *gin.Context) {
	roomID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room ID is required"})
		return
	}

	participants, err := h.Storage.GetRoomParticipants(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch participants"})
		return
	}
	c.JSON(http.StatusOK, participants)
}

type addParticipantRequest struct {
	UserID  uint `json:"userId" binding:"required"`
	IsAdmin bool `json:"isAdmin"`
}

// AddChatParticipant inserts a membership row. Re-adding an existing member
// creates a second active row; see the chat participant model.
func (h *Handler) AddChatParticipant(c *gin.Context) {
	roomID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room ID is required"})
		return
	}

	var req addParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	participant, err := h.Storage.AddParticipant(roomID, req.UserID, req.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add participant"})
		return
	}

	c.JSON(http.StatusCreated, participant)
}
