package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/swiftclaim/claims-api/config"
)

// ErrInvalidCredentials is returned when a login attempt fails
var ErrInvalidCredentials = errors.New("invalid credentials")

// SessionTTL is how long an issued session token stays valid
const SessionTTL = 24 * time.Hour

// Authenticator verifies credentials and issues session tokens
type Authenticator interface {
	Verify(email, password string) (string, error)
}

// ConfigAuthenticator checks credentials against the configured admin user
// and issues HS256 session tokens
type ConfigAuthenticator struct {
	adminEmail    string
	adminPassword string
	secret        []byte
}

var authenticatorInstance Authenticator

// InitAuthenticator initializes the authenticator from configuration
func InitAuthenticator() Authenticator {
	cfg := config.GetConfig()
	authenticatorInstance = &ConfigAuthenticator{
		adminEmail:    cfg.AdminEmail,
		adminPassword: cfg.AdminPassword,
		secret:        []byte(cfg.JWTSecret),
	}
	return authenticatorInstance
}

// GetAuthenticator returns the initialized authenticator instance
func GetAuthenticator() Authenticator {
	return authenticatorInstance
}

// SetAuthenticator sets the authenticator instance (primarily for testing)
func SetAuthenticator(a Authenticator) {
	authenticatorInstance = a
}

// Verify checks the credential pair and returns a signed session token
func (a *ConfigAuthenticator) Verify(email, password string) (string, error) {
	if a.adminEmail == "" || email != a.adminEmail || password != a.adminPassword {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ParseSessionToken validates a session token and returns its subject
func ParseSessionToken(tokenString, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid session token")
	}
	return claims.Subject, nil
}
