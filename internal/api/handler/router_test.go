package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"
	"testing"

	"civicvoice/backend/internal/api/handler"
	"civicvoice/backend/internal/auth"
	"civicvoice/backend/internal/complaint"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://localhost:3000"

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentEmail
}

type sentEmail struct {
	Email, Name, ResetLink string
}

func (r *recordingMailer) SendPasswordResetEmail(email, name, resetLink string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentEmail{Email: email, Name: name, ResetLink: resetLink})
	return nil
}

type testEnv struct {
	Router  *gin.Engine
	Storage *MockStorage
	Tokens  *auth.TokenService
	Mailer  *recordingMailer
}

// newTestEnv wires the handlers onto a router the same way main does,
// backed by mock storage and a recording mailer.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockStorage := new(MockStorage)
	tokens := auth.NewTokenService("test-secret")
	m := &recordingMailer{}
	h := handler.NewHandler(mockStorage, tokens, complaint.NewService(mockStorage, nil), nil, m, testBaseURL)

	chain := auth.Chain{
		&auth.BearerResolver{Tokens: tokens},
		&auth.SessionResolver{Store: mockStorage},
	}

	r := gin.New()
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/forgot-password", h.ForgotPassword)
	authGroup.POST("/reset-password", h.ResetPassword)
	authGroup.GET("/validate-reset-token", h.ValidateResetToken)

	api.GET("/categories", h.ListCategories)
	api.POST("/categories", h.CreateCategory)

	api.GET("/complaints", h.ListComplaints)
	api.POST("/complaints", h.CreateComplaint)
	api.GET("/complaints/:id", h.GetComplaint)
	api.PATCH("/complaints/:id", h.UpdateComplaint)
	api.DELETE("/complaints/:id", h.DeleteComplaint)
	api.GET("/complaints/:id/responses", h.ListResponses)
	api.POST("/complaints/:id/responses", h.CreateResponse)

	api.GET("/users", h.ListUsers)
	api.POST("/users", h.CreateUser)

	chat := api.Group("/chat", auth.RequireAuth(chain))
	chat.GET("/rooms", h.ListChatRooms)
	chat.POST("/rooms", h.CreateChatRoom)
	chat.GET("/rooms/:id", h.GetChatRoom)
	chat.GET("/rooms/:id/messages", h.ListChatMessages)
	chat.POST("/rooms/:id/messages", h.PostChatMessage)
	chat.GET("/rooms/:id/participants", h.ListChatParticipants)
	chat.POST("/rooms/:id/participants", h.AddChatParticipant)

	return &testEnv{Router: r, Storage: mockStorage, Tokens: tokens, Mailer: m}
}

func jsonBody(t *testing.T, body interface{}) io.Reader {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(payload)
}
