package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/carebridge/server/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
)

// PasswordAuthenticator registers and verifies accounts with bcrypt hashes.
type PasswordAuthenticator struct {
	users domain.UserRepository
}

func NewPasswordAuthenticator(users domain.UserRepository) *PasswordAuthenticator {
	return &PasswordAuthenticator{users: users}
}

// Register creates a donor account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	if existing, err := a.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         domain.UserRoleUser,
	}
	if err := a.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies the email and password pair.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
