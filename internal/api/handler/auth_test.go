package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"civicvoice/backend/internal/auth"
	"civicvoice/backend/internal/models"
	"civicvoice/backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)
	return w
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	env.Storage.On("GetUserByEmail", "new@example.com").Return(nil, storage.ErrNotFound)
	env.Storage.On("CreateUser", mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "new@example.com" &&
			u.Role == models.RoleCitizen &&
			auth.VerifyPassword("hunter22", u.Password)
	})).Return(nil)

	w := postJSON(t, env.Router, "/api/auth/register", map[string]string{
		"name":     "New User",
		"email":    "new@example.com",
		"password": "hunter22",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter22")
	env.Storage.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	existing := &models.User{Name: "Existing", Email: "taken@example.com"}
	existing.ID = 3
	env.Storage.On("GetUserByEmail", "taken@example.com").Return(existing, nil)

	w := postJSON(t, env.Router, "/api/auth/register", map[string]string{
		"name":     "Impostor",
		"email":    "taken@example.com",
		"password": "hunter22",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	env.Storage.AssertNotCalled(t, "CreateUser", mock.Anything)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	w := postJSON(t, env.Router, "/api/auth/register", map[string]string{"email": "no-name@example.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.Storage.AssertNotCalled(t, "GetUserByEmail", mock.Anything)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	hashed, err := auth.HashPassword("hunter22")
	require.NoError(t, err)
	user := &models.User{Name: "Olena", Email: "olena@example.com", Password: hashed}
	user.ID = 7
	env.Storage.On("GetUserByEmail", "olena@example.com").Return(user, nil)
	env.Storage.On("SaveSession", mock.Anything, uint(7), 7*24*time.Hour).Return(nil)

	w := postJSON(t, env.Router, "/api/auth/login", map[string]string{
		"email":    "olena@example.com",
		"password": "hunter22",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, uint(7), resp.User.ID)
	assert.Equal(t, "Olena", resp.User.Name)

	claims := env.Tokens.Verify(resp.Token)
	require.NotNil(t, claims)
	assert.Equal(t, uint(7), claims.UserID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	env.Storage.AssertExpectations(t)
}

func TestLoginInvalidCredentialsIndistinct(t *testing.T) {
	env := newTestEnv(t)
	hashed, err := auth.HashPassword("right-password")
	require.NoError(t, err)
	user := &models.User{Email: "known@example.com", Password: hashed}
	user.ID = 7
	env.Storage.On("GetUserByEmail", "known@example.com").Return(user, nil)
	env.Storage.On("GetUserByEmail", "unknown@example.com").Return(nil, storage.ErrNotFound)

	wrongPassword := postJSON(t, env.Router, "/api/auth/login", map[string]string{
		"email":    "known@example.com",
		"password": "wrong-password",
	})
	unknownEmail := postJSON(t, env.Router, "/api/auth/login", map[string]string{
		"email":    "unknown@example.com",
		"password": "whatever",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestLoginSessionSaveFailureNonFatal(t *testing.T) {
	env := newTestEnv(t)
	hashed, err := auth.HashPassword("hunter22")
	require.NoError(t, err)
	user := &models.User{Email: "olena@example.com", Password: hashed}
	user.ID = 7
	env.Storage.On("GetUserByEmail", "olena@example.com").Return(user, nil)
	env.Storage.On("SaveSession", mock.Anything, uint(7), mock.Anything).Return(assert.AnError)

	w := postJSON(t, env.Router, "/api/auth/login", map[string]string{
		"email":    "olena@example.com",
		"password": "hunter22",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestForgotPassword(t *testing.T) {
	env := newTestEnv(t)
	user := &models.User{Name: "Olena", Email: "olena@example.com"}
	user.ID = 7
	env.Storage.On("GetUserByEmail", "olena@example.com").Return(user, nil)

	var savedToken string
	env.Storage.On("CreateResetToken", mock.MatchedBy(func(tok *models.PasswordResetToken) bool {
		return tok.UserID == 7 && !tok.Used
	})).Run(func(args mock.Arguments) {
		savedToken = args.Get(0).(*models.PasswordResetToken).Token
	}).Return(nil)

	w := postJSON(t, env.Router, "/api/auth/forgot-password", map[string]string{"email": "olena@example.com"})

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.Mailer.sent, 1)
	assert.Equal(t, "olena@example.com", env.Mailer.sent[0].Email)
	assert.Equal(t, testBaseURL+"/reset-password/"+savedToken, env.Mailer.sent[0].ResetLink)
}

func TestForgotPasswordUnknownEmailSameResponse(t *testing.T) {
	env := newTestEnv(t)
	user := &models.User{Name: "Olena", Email: "olena@example.com"}
	user.ID = 7
	env.Storage.On("GetUserByEmail", "olena@example.com").Return(user, nil)
	env.Storage.On("GetUserByEmail", "nobody@example.com").Return(nil, storage.ErrNotFound)
	env.Storage.On("CreateResetToken", mock.Anything).Return(nil)

	known := postJSON(t, env.Router, "/api/auth/forgot-password", map[string]string{"email": "olena@example.com"})
	unknown := postJSON(t, env.Router, "/api/auth/forgot-password", map[string]string{"email": "nobody@example.com"})

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.JSONEq(t, known.Body.String(), unknown.Body.String())
	assert.Len(t, env.Mailer.sent, 1)
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)
	token := &models.PasswordResetToken{UserID: 7, Token: "valid-token", ExpiresAt: time.Now().Add(time.Minute)}
	env.Storage.On("FindValidResetToken", "valid-token").Return(token, nil)
	env.Storage.On("UpdateUserPassword", uint(7), mock.MatchedBy(func(hash string) bool {
		return auth.VerifyPassword("new-password-123", hash)
	})).Return(nil)
	env.Storage.On("MarkResetTokenUsed", "valid-token").Return(nil)

	w := postJSON(t, env.Router, "/api/auth/reset-password", map[string]string{
		"token":    "valid-token",
		"password": "new-password-123",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	env.Storage.AssertExpectations(t)
}

func TestResetPasswordInvalidToken(t *testing.T) {
	env := newTestEnv(t)
	env.Storage.On("FindValidResetToken", "stale-token").Return(nil, storage.ErrNotFound)

	w := postJSON(t, env.Router, "/api/auth/reset-password", map[string]string{
		"token":    "stale-token",
		"password": "new-password-123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
	env.Storage.AssertNotCalled(t, "UpdateUserPassword", mock.Anything, mock.Anything)
}

func TestResetPasswordTooShort(t *testing.T) {
	env := newTestEnv(t)

	w := postJSON(t, env.Router, "/api/auth/reset-password", map[string]string{
		"token":    "valid-token",
		"password": "short",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.Storage.AssertNotCalled(t, "FindValidResetToken", mock.Anything)
}

func TestValidateResetToken(t *testing.T) {
	env := newTestEnv(t)
	token := &models.PasswordResetToken{UserID: 7, Token: "valid-token", ExpiresAt: time.Now().Add(time.Minute)}
	env.Storage.On("FindValidResetToken", "valid-token").Return(token, nil)
	env.Storage.On("FindValidResetToken", "used-token").Return(nil, storage.ErrNotFound)

	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/validate-reset-token?token=valid-token", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":true,"userId":7}`, w.Body.String())

	w = httptest.NewRecorder()
	env.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/validate-reset-token?token=used-token", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"valid":false}`, w.Body.String())
}
