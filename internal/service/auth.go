package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/flashcard/internal/apperror"
	"github.com/sakif/flashcard/internal/auth"
	"github.com/sakif/flashcard/internal/model"
	"github.com/sakif/flashcard/internal/repository"
)

// credentials is validated on register. Login only checks for presence.
type credentials struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// AuthService owns accounts: registration, password login and token
// validation. It is the "auth subsystem" whose only output the study set and
// flashcard services consume is a *model.CurrentUser.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the logged-in user and the token to put in the cookie.
type AuthResult struct {
	User  *model.CurrentUser
	Token string
}

// Register creates an account. A taken username is apperror.ErrConflict.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if err := validateInput(credentials{Username: username, Password: password}); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password", "Password must be 72 bytes or fewer.")
		}
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{Username: username, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user %q: %w", username, err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID), slog.String("username", username))
	return user, nil
}

// Login checks the password and issues a session token.
//
// Unknown username and wrong password produce the same Unauthorized error so
// the response does not reveal which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("username", "Username and password are required.")
	}

	invalid := apperror.Unauthorized("Incorrect username or password.")

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("service/auth: looking up %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("failed login", slog.String("username", username))
			return nil, invalid
		}
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	current := &model.CurrentUser{ID: user.ID, Username: user.Username}
	token, err := s.tokens.Generate(current)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return &AuthResult{User: current, Token: token}, nil
}

// GetUserByID returns the stored account, used by /auth/me.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.Unauthorized("you must be logged in")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}
	return user, nil
}
