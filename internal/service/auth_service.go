package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/shopboard/internal/auth"
	"github.com/mmynk/shopboard/internal/middleware"
	"github.com/mmynk/shopboard/internal/models"
	"github.com/mmynk/shopboard/internal/storage"
)

// Credentials is the email/password pair submitted to register or log in.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned after a successful registration or login.
type Session struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// AuthService registers users and issues session tokens.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new user account and signs the user in.
func (s *AuthService) Register(ctx context.Context, creds Credentials) (*Session, error) {
	s.logger.Info("Register request", "email", creds.Email)

	user, err := s.authenticator.Register(ctx, creds.Email, creds.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", creds.Email, "error", err)
		return nil, err
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return session, nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*Session, error) {
	s.logger.Info("Login request", "email", creds.Email)

	user, err := s.authenticator.Authenticate(ctx, creds.Email, creds.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", creds.Email, "error", err)
		return nil, err
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return session, nil
}

// CurrentUser returns the account of the user authenticated on ctx.
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, auth.ErrMissingToken
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Warn("CurrentUser lookup failed", "user_id", userID, "error", err)
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, expiresAt, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
