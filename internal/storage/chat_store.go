package storage

import (
	"errors"
	"log"
	"time"

	"civicvoice/backend/internal/models"

	"gorm.io/gorm"
)

// GetUserChatRooms returns the rooms where the user has an active (non-left)
// participant record. The result set is unbounded.
func (s *Service) GetUserChatRooms(userID uint) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := s.DB.Model(&models.ChatRoom{}).
		Joins("JOIN chat_participants ON chat_participants.room_id = chat_rooms.id AND chat_participants.user_id = ?", userID).
		Where("chat_participants.left_at IS NULL").
		Distinct("chat_rooms.*").
		Find(&rooms).Error
	if err != nil {
		log.Printf("ERROR: Failed to list rooms for user %d: %v", userID, err)
		return nil, err
	}
	return rooms, nil
}

func (s *Service) GetRoomByID(roomID uint) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.First(&room, roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %d: %v", roomID, err)
		return nil, err
	}
	return &room, nil
}

// CreateChatRoom inserts the room as-is. Name uniqueness and complaint
// existence are the caller's responsibility.
func (s *Service) CreateChatRoom(room *models.ChatRoom) error {
	return s.DB.Create(room).Error
}

// AddParticipant inserts a membership row unconditionally. There is no
// duplicate-membership check: repeated calls create additional active rows.
func (s *Service) AddParticipant(roomID, userID uint, isAdmin bool) (*models.ChatParticipant, error) {
	participant := models.ChatParticipant{
		RoomID:   roomID,
		UserID:   userID,
		IsAdmin:  isAdmin,
		JoinedAt: time.Now(),
	}
	if err := s.DB.Create(&participant).Error; err != nil {
		log.Printf("ERROR: Failed to add user %d to room %d: %v", userID, roomID, err)
		return nil, err
	}
	return &participant, nil
}

type participantRow struct {
	models.ChatParticipant
	UserName  string
	UserEmail string
	UserImage *string
	UserRole  string
}

// GetRoomParticipants returns active participants joined with profile fields.
func (s *Service) GetRoomParticipants(roomID uint) ([]models.ParticipantWithUser, error) {
	var rows []participantRow
	err := s.DB.Table("chat_participants").
		Select("chat_participants.*, users.name AS user_name, users.email AS user_email, users.image AS user_image, users.role AS user_role").
		Joins("JOIN users ON users.id = chat_participants.user_id").
		Where("chat_participants.room_id = ?", roomID).
		Where("chat_participants.left_at IS NULL").
		Scan(&rows).Error
	if err != nil {
		log.Printf("ERROR: Failed to list participants for room %d: %v", roomID, err)
		return nil, err
	}

	participants := make([]models.ParticipantWithUser, 0, len(rows))
	for _, row := range rows {
		p := models.ParticipantWithUser{ChatParticipant: row.ChatParticipant}
		p.User = models.ParticipantUser{
			ID:    row.UserID,
			Name:  row.UserName,
			Email: row.UserEmail,
			Image: row.UserImage,
			Role:  row.UserRole,
		}
		participants = append(participants, p)
	}
	return participants, nil
}

// SaveChatMessage inserts the message with read=false and fills in the
// generated ID and timestamps. Broadcasting it over the socket transport is
// the caller's job; persistence and broadcast are separate steps.
func (s *Service) SaveChatMessage(msg *models.ChatMessage) error {
	msg.Read = false
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for room %d: %v", msg.RoomID, err)
		return err
	}
	return nil
}

type messageRow struct {
	models.ChatMessage
	SenderName  string
	SenderImage *string
}

// GetRoomMessages returns messages newest-first with sender identity
// attached. Default paging (limit 50, offset 0) is applied by the handler.
func (s *Service) GetRoomMessages(roomID uint, limit, offset int) ([]models.MessageWithSender, error) {
	var rows []messageRow
	err := s.DB.Table("chat_messages").
		Select("chat_messages.*, users.name AS sender_name, users.image AS sender_image").
		Joins("JOIN users ON users.id = chat_messages.sender_id").
		Where("chat_messages.room_id = ?", roomID).
		Order("chat_messages.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		log.Printf("ERROR: Failed to get messages for room %d: %v", roomID, err)
		return nil, err
	}

	messages := make([]models.MessageWithSender, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, models.MessageWithSender{
			ChatMessage: row.ChatMessage,
			Sender: models.MessageSender{
				ID:    row.SenderID,
				Name:  row.SenderName,
				Image: row.SenderImage,
			},
		})
	}
	return messages, nil
}

// MarkMessagesRead flags every message in the room not sent by this user as
// read. Bulk update; messages authored by userID are never touched.
func (s *Service) MarkMessagesRead(roomID, userID uint) error {
	return s.DB.Model(&models.ChatMessage{}).
		Where("room_id = ?", roomID).
		Where("sender_id <> ?", userID).
		Update("read", true).Error
}
