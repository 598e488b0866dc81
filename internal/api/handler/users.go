package handler

import (
	"errors"
	"net/http"

	"civicvoice/backend/internal/auth"
	"civicvoice/backend/internal/models"
	"civicvoice/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// ListUsers returns all users. Password hashes never serialize.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Storage.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

type createUserRequest struct {
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required"`
	Role       string  `json:"role"`
	Department *string `json:"department"`
	Image      *string `json:"image"`
}

// CreateUser adds an account directly, e.g. agency staff provisioning.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email, and password are required"})
		return
	}

	if _, err := h.Storage.GetUserByEmail(req.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	user := models.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   hashed,
		Role:       req.Role,
		Department: req.Department,
		Image:      req.Image,
	}
	if err := h.Storage.CreateUser(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}
