package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/pt-logbook/internal/application/port"
	"github.com/garyjia/pt-logbook/internal/domain/entity"
	"github.com/garyjia/pt-logbook/pkg/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL is used when the auth service is given no session lifetime.
const DefaultSessionTTL = 14 * 24 * time.Hour

// SignupRequest holds the fields of a new account
type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// AuthService manages accounts and sessions
type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*entity.User, error)
	Login(ctx context.Context, identifier, password string) (*entity.Session, *entity.User, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, sessionID string) (*entity.User, error)
	ResetPassword(ctx context.Context, identifier, password1, password2 string) error
}

type authServiceImpl struct {
	userRepo    port.UserRepository
	sessionRepo port.SessionRepository
	sessionTTL  time.Duration
	logger      Logger
	now         func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo port.UserRepository,
	sessionRepo port.SessionRepository,
	sessionTTL time.Duration,
	logger Logger,
) AuthService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &authServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// Signup creates an account with a hashed password
func (s *authServiceImpl) Signup(ctx context.Context, req SignupRequest) (*entity.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, req.Username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = s.userRepo.ExistsByEmail(ctx, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", "error", err, "username", req.Username)
		return nil, err
	}

	s.logger.Info("User signed up", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login checks the password and opens a new session
func (s *authServiceImpl) Login(ctx context.Context, identifier, password string) (*entity.Session, *entity.User, error) {
	user, err := s.userRepo.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	now := s.now()
	session := &entity.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		s.logger.Error("Failed to create session", "error", err, "user_id", user.ID)
		return nil, nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return session, user, nil
}

// Logout ends a session. Unknown sessions are ignored.
func (s *authServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}

// Authenticate resolves a live session to its user
func (s *authServiceImpl) Authenticate(ctx context.Context, sessionID string) (*entity.User, error) {
	if sessionID == "" {
		return nil, ErrUnauthenticated
	}
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.Expired(s.now()) {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// ResetPassword sets a new password for the user with the given username or
// email
func (s *authServiceImpl) ResetPassword(ctx context.Context, identifier, password1, password2 string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password1 == "" || password2 == "" {
		return ErrMissingFields
	}
	if password1 != password2 {
		return ErrPasswordMismatch
	}

	user, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password1), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		s.logger.Error("Failed to reset password", "error", err, "user_id", user.ID)
		return err
	}

	s.logger.Info("Password reset", "user_id", user.ID)
	return nil
}
