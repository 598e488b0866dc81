package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"civicvoice/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Storage is the persistence boundary for the whole backend. The database is
// the single source of truth; every method is a single-statement write or
// read, and storage errors propagate upward unchanged.
type Storage interface {
	// Users
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers() ([]models.User, error)
	UpdateUserPassword(userID uint, hashedPassword string) error
	UpdateUserRole(email, role string) error

	// Password-reset tokens
	CreateResetToken(token *models.PasswordResetToken) error
	FindValidResetToken(token string) (*models.PasswordResetToken, error)
	MarkResetTokenUsed(token string) error

	// Categories
	ListCategories() ([]models.Category, error)
	CreateCategory(category *models.Category) error

	// Complaints
	ListComplaints(filter ComplaintFilter) ([]models.Complaint, error)
	CreateComplaint(complaint *models.Complaint) error
	GetComplaintByID(id uint) (*models.Complaint, error)
	UpdateComplaint(id uint, fields map[string]interface{}) (*models.Complaint, error)
	DeleteComplaint(id uint) error
	AppendStatusHistory(entry *models.StatusHistory) error
	ListStatusHistory(complaintID uint) ([]models.StatusHistory, error)
	ListResponses(complaintID uint) ([]models.Response, error)
	CreateResponse(response *models.Response) error

	// Chat
	GetUserChatRooms(userID uint) ([]models.ChatRoom, error)
	GetRoomByID(roomID uint) (*models.ChatRoom, error)
	CreateChatRoom(room *models.ChatRoom) error
	AddParticipant(roomID, userID uint, isAdmin bool) (*models.ChatParticipant, error)
	GetRoomParticipants(roomID uint) ([]models.ParticipantWithUser, error)
	SaveChatMessage(msg *models.ChatMessage) error
	GetRoomMessages(roomID uint, limit, offset int) ([]models.MessageWithSender, error)
	MarkMessagesRead(roomID, userID uint) error

	// Sessions
	SaveSession(sessionID string, userID uint, ttl time.Duration) error
	GetSession(sessionID string) (uint, error)
	DeleteSession(sessionID string) error
}

// Service implements Storage on top of PostgreSQL (GORM) and Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// --- Users ---

func (s *Service) CreateUser(user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleCitizen
	}
	return s.DB.Create(user).Error
}

func (s *Service) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Service) UpdateUserPassword(userID uint, hashedPassword string) error {
	return s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", hashedPassword).Error
}

func (s *Service) UpdateUserRole(email, role string) error {
	result := s.DB.Model(&models.User{}).
		Where("email = ?", email).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Password-reset tokens ---

func (s *Service) CreateResetToken(token *models.PasswordResetToken) error {
	return s.DB.Create(token).Error
}

// FindValidResetToken returns the token row only while it is simultaneously
// unused and unexpired.
func (s *Service) FindValidResetToken(token string) (*models.PasswordResetToken, error) {
	var row models.PasswordResetToken
	err := s.DB.
		Where("token = ?", token).
		Where("used = ?", false).
		Where("expires_at > ?", time.Now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to look up reset token: %v", err)
		return nil, err
	}
	return &row, nil
}

func (s *Service) MarkResetTokenUsed(token string) error {
	return s.DB.Model(&models.PasswordResetToken{}).
		Where("token = ?", token).
		Update("used", true).Error
}

// --- Categories ---

func (s *Service) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.DB.Order("id asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Service) CreateCategory(category *models.Category) error {
	return s.DB.Create(category).Error
}
