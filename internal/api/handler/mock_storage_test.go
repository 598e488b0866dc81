package handler_test

import (
	"time"

	"civicvoice/backend/internal/models"
	"civicvoice/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) ListUsers() ([]models.User, error) {
	args := m.Called()
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) UpdateUserPassword(userID uint, hashedPassword string) error {
	args := m.Called(userID, hashedPassword)
	return args.Error(0)
}

func (m *MockStorage) UpdateUserRole(email, role string) error {
	args := m.Called(email, role)
	return args.Error(0)
}

func (m *MockStorage) CreateResetToken(token *models.PasswordResetToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockStorage) FindValidResetToken(token string) (*models.PasswordResetToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PasswordResetToken), args.Error(1)
}

func (m *MockStorage) MarkResetTokenUsed(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockStorage) ListCategories() ([]models.Category, error) {
	args := m.Called()
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockStorage) CreateCategory(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockStorage) ListComplaints(filter storage.ComplaintFilter) ([]models.Complaint, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) CreateComplaint(complaint *models.Complaint) error {
	args := m.Called(complaint)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(id uint) (*models.Complaint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) UpdateComplaint(id uint, fields map[string]interface{}) (*models.Complaint, error) {
	args := m.Called(id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) DeleteComplaint(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) AppendStatusHistory(entry *models.StatusHistory) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockStorage) ListStatusHistory(complaintID uint) ([]models.StatusHistory, error) {
	args := m.Called(complaintID)
	return args.Get(0).([]models.StatusHistory), args.Error(1)
}

func (m *MockStorage) ListResponses(complaintID uint) ([]models.Response, error) {
	args := m.Called(complaintID)
	return args.Get(0).([]models.Response), args.Error(1)
}

func (m *MockStorage) CreateResponse(response *models.Response) error {
	args := m.Called(response)
	return args.Error(0)
}

func (m *MockStorage) GetUserChatRooms(userID uint) ([]models.ChatRoom, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.ChatRoom), args.Error(1)
}

func (m *MockStorage) GetRoomByID(roomID uint) (*models.ChatRoom, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) CreateChatRoom(room *models.ChatRoom) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockStorage) AddParticipant(roomID, userID uint, isAdmin bool) (*models.ChatParticipant, error) {
	args := m.Called(roomID, userID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatParticipant), args.Error(1)
}

func (m *MockStorage) GetRoomParticipants(roomID uint) ([]models.ParticipantWithUser, error) {
	args := m.Called(roomID)
	return args.Get(0).([]models.ParticipantWithUser), args.Error(1)
}

func (m *MockStorage) SaveChatMessage(msg *models.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetRoomMessages(roomID uint, limit, offset int) ([]models.MessageWithSender, error) {
	args := m.Called(roomID, limit, offset)
	return args.Get(0).([]models.MessageWithSender), args.Error(1)
}

func (m *MockStorage) MarkMessagesRead(roomID, userID uint) error {
	args := m.Called(roomID, userID)
	return args.Error(0)
}

func (m *MockStorage) SaveSession(sessionID string, userID uint, ttl time.Duration) error {
	args := m.Called(sessionID, userID, ttl)
	return args.Error(0)
}

func (m *MockStorage) GetSession(sessionID string) (uint, error) {
	args := m.Called(sessionID)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockStorage) DeleteSession(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}
