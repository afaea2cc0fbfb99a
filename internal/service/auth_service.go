package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ckante203-dev/chat-backend/internal/auth"
	"github.com/ckante203-dev/chat-backend/internal/domain"
	"github.com/ckante203-dev/chat-backend/internal/repository"
	"github.com/ckante203-dev/chat-backend/pkg/validator"
	"github.com/google/uuid"
)

type AuthService struct {
	userRepo repository.UserRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenManager
	logger   *slog.Logger
}

func NewAuthService(userRepo repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger.With("component", "auth"),
	}
}

type RegisterInput struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	BirthDate   *string `json:"birth_date,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User        domain.PublicUser `json:"user"`
	AccessToken string            `json:"access_token"`
	ExpiresAt   time.Time         `json:"expires_at"`
	ExpiresIn   int64             `json:"expires_in"`
}

// Register creates a user with a bcrypt-hashed password. Emails are matched
// exactly, so "A@x.com" and "a@x.com" are different accounts.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := validationError(validator.ValidateRegister(input.Email, input.Password)); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, storageError("looking up email", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	// v7 ids sort by creation time, breaking created_at ties in ListUsers.
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating user id: %w", err)
	}

	user := &domain.User{
		ID:           id,
		Email:        input.Email,
		PasswordHash: hash,
		BirthDate:    input.BirthDate,
		PhoneNumber:  input.PhoneNumber,
		CreatedAt:    now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, storageError("creating user", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the password and issues a session token bound to the user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	if err := validationError(validator.ValidateLogin(input.Email, input.Password)); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, storageError("looking up email", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		s.logger.Debug("login rejected", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &AuthResponse{
		User:        user.Public(),
		AccessToken: token,
		ExpiresAt:   expiresAt,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

// ListUsers returns every user, newest first.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, storageError("listing users", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// Me resolves the subject of a verified token to its user.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, storageError("getting user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// now is the service clock. Postgres keeps microseconds, so values are
// truncated to match what a later read returns.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
