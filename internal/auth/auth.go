// Package auth guards the presenter-only demo controls. A shared passphrase
// is exchanged for a short-lived JWT; the middleware checks it on mutating
// routes. When no passphrase is configured the demo runs open.
package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fibersense/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

type Manager struct {
	secret     []byte
	passphrase string
	ttl        time.Duration
	now        func() time.Time
}

func NewManager(cfg *config.SecurityConfig) *Manager {
	return &Manager{
		secret:     []byte(cfg.JWTSecret),
		passphrase: cfg.PresenterPassphrase,
		ttl:        time.Duration(cfg.JWTExpirationHours) * time.Hour,
		now:        time.Now,
	}
}

// Enabled reports whether presenter controls require a token.
func (m *Manager) Enabled() bool {
	return m.passphrase != ""
}

// IssueToken exchanges the presenter passphrase for a signed token.
func (m *Manager) IssueToken(passphrase string) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(passphrase), []byte(m.passphrase)) != 1 {
		return "", time.Time{}, fmt.Errorf("invalid passphrase")
	}

	expiresAt := m.now().Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   "presenter",
		Issuer:    "fibersense",
		IssuedAt:  jwt.NewNumericDate(m.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (m *Manager) validate(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

// Middleware enforces a Bearer presenter token. A no-op when auth is
// disabled.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			respondUnauthorized(w, "Authorization header required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondUnauthorized(w, "Invalid authorization format")
			return
		}

		if err := m.validate(parts[1]); err != nil {
			respondUnauthorized(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error": %q}`, message)
}
