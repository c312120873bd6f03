package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/macapp/admin-console/internal/api/metrics"
	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

// AuthService implements login and session re-validation.
type AuthService struct {
	users    ports.UserRepository
	throttle ports.LoginThrottle
	log      zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(users ports.UserRepository, throttle ports.LoginThrottle, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, throttle: throttle, log: log}
}

// Login checks the credentials of an active account. Unknown user, wrong
// password and disabled account all return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, userName, password string) (*domain.SafeUser, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	allowed, err := s.throttle.Allow(ctx, userName)
	if err != nil {
		s.log.Warn().Err(err).Str("user_name", userName).Msg("login throttle unavailable, allowing attempt")
	}
	if !allowed {
		metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		s.log.Warn().Str("user_name", userName).Msg("login throttled")
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindActiveByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, s.fail(ctx, userName, "unknown user")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, s.fail(ctx, userName, "wrong password")
	}
	if !user.Active() {
		return nil, s.fail(ctx, userName, "account disabled")
	}

	if err := s.throttle.Reset(ctx, userName); err != nil {
		s.log.Warn().Err(err).Str("user_name", userName).Msg("failed to reset login throttle")
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("login succeeded")

	safe := user.Safe()
	return &safe, nil
}

func (s *AuthService) fail(ctx context.Context, userName, reason string) error {
	metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
	s.log.Info().Str("user_name", userName).Str("reason", reason).Msg("login failed")
	if err := s.throttle.Fail(ctx, userName); err != nil {
		s.log.Warn().Err(err).Str("user_name", userName).Msg("failed to record login failure")
	}
	return domain.ErrInvalidCredentials
}

// Profile re-reads the session user. A user that no longer exists or is no
// longer NORMAL is rejected even though its token is still valid.
func (s *AuthService) Profile(ctx context.Context, id string) (*domain.SafeUser, error) {
	if id == "" {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrAccountDisabled
		}
		return nil, err
	}
	if !user.Active() {
		return nil, domain.ErrAccountDisabled
	}
	safe := user.Safe()
	return &safe, nil
}
