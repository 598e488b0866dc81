package auth

import (
	"net/http"

	"civicvoice/backend/internal/models"
)

// SessionCookieName is the cookie carrying the redis-backed session id.
const SessionCookieName = "session_id"

// Identity is a resolved caller identity, whichever credential produced it.
type Identity struct {
	UserID uint
	Email  string
	Name   string
	Image  *string
}

// CredentialResolver inspects a request and returns either a resolved
// identity or nil ("no opinion"). Resolvers must not write the response.
type CredentialResolver interface {
	Resolve(r *http.Request) *Identity
}

// Chain tries resolvers in order and short-circuits on the first identity.
// The bearer resolver is conventionally first, the session resolver the
// fallback; a request is authenticated if either succeeds.
type Chain []CredentialResolver

func (c Chain) Resolve(r *http.Request) *Identity {
	for _, resolver := range c {
		if identity := resolver.Resolve(r); identity != nil {
			return identity
		}
	}
	return nil
}

// BearerResolver authenticates via the Authorization header.
type BearerResolver struct {
	Tokens *TokenService
}

func (b *BearerResolver) Resolve(r *http.Request) *Identity {
	token := ParseBearer(r.Header.Get("Authorization"))
	if token == "" {
		return nil
	}
	claims := b.Tokens.Verify(token)
	if claims == nil {
		return nil
	}
	return &Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Image:  claims.Image,
	}
}

// SessionUserLookup is the slice of storage the session resolver needs.
type SessionUserLookup interface {
	GetSession(sessionID string) (uint, error)
	GetUserByID(id uint) (*models.User, error)
}

// SessionResolver authenticates via the session cookie set at login.
type SessionResolver struct {
	Store SessionUserLookup
}

func (s *SessionResolver) Resolve(r *http.Request) *Identity {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	userID, err := s.Store.GetSession(cookie.Value)
	if err != nil {
		return nil
	}

	user, err := s.Store.GetUserByID(userID)
	if err != nil {
		return nil
	}

	return &Identity{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Image:  user.Image,
	}
}
