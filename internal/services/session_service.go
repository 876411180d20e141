// Package services – SessionService
//
// SessionService resolves session tokens to users and, when development login
// is enabled, signs users in by email.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-leads-backend/internal/auth"
	"github.com/tbourn/go-leads-backend/internal/domain"
	"github.com/tbourn/go-leads-backend/internal/repo"
	"github.com/tbourn/go-leads-backend/internal/validation"
)

// SessionService issues and resolves session tokens.
type SessionService struct {
	DB        *gorm.DB
	Tokens    *auth.TokenManager
	Validator *validation.Validator
}

// Session is a freshly issued token for a user.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

// Login upserts the user with email and issues a token for it.
func (s *SessionService) Login(ctx context.Context, email, name string) (*Session, error) {
	email = strings.TrimSpace(email)
	if fe := s.Validator.Email(email); fe != nil {
		return nil, &ValidationError{Errors: []validation.FieldError{*fe}}
	}
	u, err := repo.EnsureUser(ctx, s.DB, email, name)
	if err != nil {
		return nil, err
	}
	tok, exp, err := s.Tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok, ExpiresAt: exp, User: u}, nil
}

// Resolve returns the user a token belongs to, or auth.ErrUnauthenticated.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, auth.ErrUnauthenticated
	}
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	u, err := repo.GetUser(ctx, s.DB, claims.Subject)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, auth.ErrUnauthenticated
	}
	return u, err
}
