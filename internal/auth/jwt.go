// Package auth issues and verifies the bearer tokens protecting the API.
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/studybuddy-app/studybuddy/internal/model"
)

const issuer = "studybuddy"

// UserLookup resolves a token subject to a live account. Deactivated or
// deleted accounts fail middleware even with a valid token.
type UserLookup interface {
	GetUserByID(id int64) (*model.User, error)
}

// Claims is the JWT payload for a logged-in user.
type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// Service signs and parses HS256 tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service. ttl bounds how long issued tokens
// stay valid.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// IssueToken signs a token for the given user.
func (s *Service) IssueToken(u *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token string and returns its claims.
func (s *Service) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// resolved user in the request context.
func (s *Service) Middleware(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := s.Parse(tokenStr)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			user, err := users.GetUserByID(claims.UserID)
			if err != nil {
				http.Error(w, "lookup user", http.StatusInternalServerError)
				return
			}
			if user == nil || !user.Active {
				http.Error(w, "account not active", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(model.ContextWithUser(r.Context(), user)))
		})
	}
}
