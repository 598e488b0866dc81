// Package handler maps the HTTP surface onto the service and storage layers.
package handler

import (
	"strconv"

	"civicvoice/backend/internal/auth"
	"civicvoice/backend/internal/chathub"
	"civicvoice/backend/internal/complaint"
	"civicvoice/backend/internal/mailer"
	"civicvoice/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler carries the dependencies shared by all route handlers.
type Handler struct {
	Storage    storage.Storage
	Tokens     *auth.TokenService
	Complaints *complaint.Service
	Hub        *chathub.Hub
	Mailer     mailer.Mailer
	BaseURL    string
}

func NewHandler(s storage.Storage, tokens *auth.TokenService, complaints *complaint.Service, hub *chathub.Hub, m mailer.Mailer, baseURL string) *Handler {
	return &Handler{
		Storage:    s,
		Tokens:     tokens,
		Complaints: complaints,
		Hub:        hub,
		Mailer:     m,
		BaseURL:    baseURL,
	}
}

// uintParam parses a numeric path parameter. ok is false for missing,
// non-numeric or zero values.
func uintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}
