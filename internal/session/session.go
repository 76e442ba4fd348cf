// Package session holds the signed-in user's context. The editor receives a
// Session explicitly instead of reading process-wide auth state.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	UserID      string    `json:"userId"`
	Username    string    `json:"username,omitempty"`
	Roles       []string  `json:"roles,omitempty"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt,omitempty"`
}

// FromToken reads identity claims from a JWT without checking its
// signature. Callers must only pass tokens already verified by the auth
// middleware.
func FromToken(token string) (*Session, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	s := &Session{
		UserID:      sub,
		Username:    firstStringClaim(claims, "username", "preferred_username", "email"),
		Roles:       rolesClaim(claims),
		AccessToken: token,
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}
	return s, nil
}

// Token makes a Session usable as the API client's token source.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.AccessToken
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func firstStringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v, ok := claims[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func rolesClaim(claims jwt.MapClaims) []string {
	var roles []string
	switch v := claims["roles"].(type) {
	case []interface{}:
		for _, r := range v {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
	case string:
		roles = append(roles, v)
	}
	if len(roles) == 0 {
		if r, ok := claims["role"].(string); ok && r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
