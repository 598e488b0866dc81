package handler

import (
	"errors"
	"log"
	"net/http"

	"civicvoice/backend/internal/auth"
	"civicvoice/backend/internal/config"
	"civicvoice/backend/internal/models"
	"civicvoice/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// resetNoticeMessage is returned for every forgot-password request,
// whether or not the email exists, to avoid account enumeration.
const resetNoticeMessage = "If your email exists in our system, you will receive a password reset link"

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a citizen account. Duplicate emails yield 409 and no row.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name, email, and password are required"})
		return
	}

	if _, err := h.Storage.GetUserByEmail(req.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Email already in use"})
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     models.RoleCitizen,
	}
	if err := h.Storage.CreateUser(&user); err != nil {
		log.Printf("Registration error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks the credentials and, on success, issues a bearer token and a
// redis-backed session cookie. A wrong email and a wrong password are
// indistinguishable to the caller.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	user, err := h.Storage.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	if !auth.VerifyPassword(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.Email, user.Name, user.Image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	// Session cookie is the fallback leg of the dual-path auth. Losing it is
	// non-fatal: the bearer token alone authenticates.
	sessionID := uuid.New().String()
	if err := h.Storage.SaveSession(sessionID, user.ID, config.TokenExpiry); err != nil {
		log.Printf("WARNING: Failed to save session for user %d: %v", user.ID, err)
	} else {
		c.SetCookie(auth.SessionCookieName, sessionID, int(config.TokenExpiry.Seconds()), "/", "", false, true)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"image": user.Image,
		},
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword creates a reset token and emails the link. The response is
// the same generic notice whether or not the account exists.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return
	}

	user, err := h.Storage.GetUserByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": resetNoticeMessage})
		return
	}

	token := auth.NewResetToken(user.ID)
	if err := h.Storage.CreateResetToken(token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	resetLink := h.BaseURL + "/reset-password/" + token.Token
	if err := h.Mailer.SendPasswordResetEmail(user.Email, user.Name, resetLink); err != nil {
		log.Printf("ERROR: Failed to send password reset email to %s: %v", user.Email, err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": resetNoticeMessage})
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResetPassword redeems a valid token: updates the password, then marks the
// token used so it never verifies again.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Token and password are required"})
		return
	}

	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must be at least 8 characters long"})
		return
	}

	token, err := h.Storage.FindValidResetToken(req.Token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	if err := h.Storage.UpdateUserPassword(token.UserID, hashed); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}
	if err := h.Storage.MarkResetTokenUsed(req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
}

// ValidateResetToken reports whether a reset token is still redeemable.
func (h *Handler) ValidateResetToken(c *gin.Context) {
	tokenValue := c.Query("token")
	if tokenValue == "" {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "message": "Token is required"})
		return
	}

	token, err := h.Storage.FindValidResetToken(tokenValue)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"valid": false})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "userId": token.UserID})
}
