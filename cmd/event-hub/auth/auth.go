// Package auth verifies credentials and issues the session tokens that gate
// the admin and user route groups.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"event-hub-backend/cmd/event-hub/model"

	"golang.org/x/crypto/bcrypt"
)

// Identity is who a verified token or credential belongs to.
type Identity struct {
	UserID uint       `json:"user_id"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
}

// Provider checks credentials against an identity backend.
type Provider interface {
	Verify(ctx context.Context, creds model.Credentials) (Identity, error)
}

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}

// PasswordProvider verifies bcrypt hashes of stored users.
type PasswordProvider struct {
	users UserStore
}

func NewPasswordProvider(users UserStore) *PasswordProvider {
	return &PasswordProvider{
		users: users,
	}
}

// Verify fails with ErrInvalidCredentials for an unknown email, a wrong
// password, or a role that differs from the one the caller asked for.
func (p *PasswordProvider) Verify(ctx context.Context, creds model.Credentials) (Identity, error) {
	email := NormalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return Identity{}, model.ErrInvalidCredentials
	}

	user, err := p.users.GetUserByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return Identity{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return Identity{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := CheckPassword(user.PasswordHash, creds.Password); err != nil {
		return Identity{}, err
	}

	if creds.Role != "" && creds.Role != user.Role {
		return Identity{}, model.ErrInvalidCredentials
	}

	return Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return model.ErrInvalidCredentials
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
