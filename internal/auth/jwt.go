package auth

import (
	"strings"
	"time"

	"civicvoice/backend/internal/config"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by issued bearer tokens.
type Claims struct {
	UserID uint    `json:"userId"`
	Email  string  `json:"email"`
	Name   string  `json:"name,omitempty"`
	Image  *string `json:"image,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a 7-day token carrying the user's identity.
func (t *TokenService) Issue(userID uint, email, name string, image *string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Name:   name,
		Image:  image,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "civicvoice-backend",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.TokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks signature and expiry. It returns nil on any failure:
// expired, tampered, malformed, or signed with the wrong method.
func (t *TokenService) Verify(tokenString string) *Claims {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	return claims
}

// ParseBearer extracts the token from an Authorization header value.
// Returns "" when the header is missing or not a Bearer scheme.
func ParseBearer(authHeader string) string {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}
