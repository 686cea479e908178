package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/moementrabelsi/mma/internal/apperr"
	"github.com/moementrabelsi/mma/internal/model"
	"github.com/moementrabelsi/mma/pkg/config"
	"github.com/moementrabelsi/mma/pkg/jwtutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted new password
const MinPasswordLength = 6

// LoginResult is returned by a successful login
type LoginResult struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// AuthService authenticates admins and issues tokens
type AuthService struct {
	*base
	jwt   *jwtutil.JWTUtil
	admin config.AdminConfig
	cost  int

	dummyOnce sync.Once
	dummyHash []byte
}

func (s *AuthService) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Bootstrap provisions the configured admin when no admin exists yet
func (s *AuthService) Bootstrap(ctx context.Context) error {
	count, err := s.store.Admins().Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := s.hash(s.admin.Password)
	if err != nil {
		return err
	}
	now := s.timestamp()
	admin := &model.Admin{
		ID:           uuid.New().String(),
		Username:     s.admin.Username,
		PasswordHash: hash,
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Admins().Create(ctx, admin); err != nil {
		return err
	}

	s.log.Warn("Default admin created, change its password before going to production",
		zap.String("username", admin.Username))
	return nil
}

// compareDummy spends the same bcrypt time for unknown users as for wrong passwords
func (s *AuthService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.New().String()), s.cost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}

// Login checks the credentials and returns a signed token.
// Unknown users and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	s.metrics.AuthAttemptsCounter.Inc()

	if username == "" || password == "" {
		s.metrics.AuthErrorsCounter.Inc()
		return nil, apperr.Validation("Username and password are required")
	}

	admin, err := s.store.Admins().FindByUsername(ctx, username)
	if err != nil {
		s.metrics.AuthErrorsCounter.Inc()
		if errors.Is(err, apperr.ErrNotFound) {
			s.compareDummy(password)
			s.log.Warn("Login failed", zap.String("username", username))
			return nil, apperr.InvalidCredentials()
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.metrics.AuthErrorsCounter.Inc()
		s.log.Warn("Login failed", zap.String("username", username))
		return nil, apperr.InvalidCredentials()
	}

	token, err := s.jwt.GenerateToken(admin.ID, admin.Username, admin.IsAdmin)
	if err != nil {
		s.metrics.AuthErrorsCounter.Inc()
		return nil, err
	}

	s.metrics.AuthSuccessCounter.Inc()
	s.log.Info("Login successful", zap.String("user_id", admin.ID), zap.String("username", admin.Username))
	return &LoginResult{Token: token, User: admin.Public()}, nil
}

// Me resolves the principal of a validated token to its current record
func (s *AuthService) Me(ctx context.Context, claims *jwtutil.Claims) (*model.PublicUser, error) {
	admin, err := s.store.Admins().Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Unauthorized("User no longer exists")
		}
		return nil, err
	}
	user := admin.Public()
	return &user, nil
}

// ChangePassword replaces the password of adminID after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, adminID, current, next string) error {
	if current == "" || next == "" {
		return apperr.Validation("Current password and new password are required")
	}
	if len(next) < MinPasswordLength {
		return apperr.Validation("New password must be at least 6 characters long")
	}

	admin, err := s.store.Admins().Get(ctx, adminID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Unauthorized("User no longer exists")
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(current)); err != nil {
		return apperr.Validation("Current password is incorrect")
	}

	hash, err := s.hash(next)
	if err != nil {
		return err
	}
	admin.PasswordHash = hash
	admin.UpdatedAt = s.timestamp()
	if err := s.store.Admins().Update(ctx, admin); err != nil {
		return err
	}

	s.log.Info("Password changed", zap.String("user_id", admin.ID))
	return nil
}
