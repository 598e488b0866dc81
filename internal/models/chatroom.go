package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatRoom is a discussion room, optionally linked to a complaint.
type ChatRoom struct {
	gorm.Model

	Name        string `gorm:"type:text;not null" json:"name"`
	ComplaintID *uint  `gorm:"index" json:"complaintId"`
}

// ChatParticipant links a user to a room. A participant is active while
// LeftAt is nil; that null-sentinel is the only membership-validity rule.
// Repeated joins insert additional rows; de-duplication is intentionally
// not enforced here.
type ChatParticipant struct {
	gorm.Model

	RoomID   uint       `gorm:"not null;index:idx_room_member" json:"roomId"`
	UserID   uint       `gorm:"not null;index:idx_room_member" json:"userId"`
	IsAdmin  bool       `gorm:"not null;default:false" json:"isAdmin"`
	JoinedAt time.Time  `gorm:"not null" json:"joinedAt"`
	LeftAt   *time.Time `json:"leftAt"`
}

// ChatMessage is an append-only room message. Read is the only field mutated
// after creation.
type ChatMessage struct {
	gorm.Model

	RoomID         uint    `gorm:"not null;index:idx_room_msg" json:"roomId"`
	SenderID       uint    `gorm:"not null;index:idx_room_msg" json:"senderId"`
	Content        string  `gorm:"type:text" json:"content"`
	AttachmentURL  *string `gorm:"type:text" json:"attachmentUrl"`
	AttachmentType *string `gorm:"type:text" json:"attachmentType"`
	Read           bool    `gorm:"not null;default:false" json:"read"`
}

// MessageSender is the subset of user fields attached to a listed message.
type MessageSender struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

// MessageWithSender is a chat message joined with its sender's identity,
// as returned by the room message listing.
type MessageWithSender struct {
	ChatMessage
	Sender MessageSender `json:"sender" gorm:"-"`
}

// ParticipantUser is the profile subset attached to a participant listing.
type ParticipantUser struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Image *string `json:"image"`
	Role  string  `json:"role"`
}

// ParticipantWithUser is an active membership row joined with profile fields.
type ParticipantWithUser struct {
	ChatParticipant
	User ParticipantUser `json:"user" gorm:"-"`
}
