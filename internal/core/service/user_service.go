package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

const (
	passwordCost      = 12
	minPasswordLength = 6
)

type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger

	hash  func(password string) (string, error)
	newID func() string
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log, hash: hashPassword, newID: newUserID}
}

func hashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// newUserID returns a 32-character hex id.
func newUserID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *UserService) List(ctx context.Context, q domain.PageQuery) (domain.Page[domain.SafeUser], error) {
	items, total, err := s.repo.FindPaged(ctx, q)
	if err != nil {
		return domain.Page[domain.SafeUser]{}, err
	}
	return domain.NewPage(q, items, total), nil
}

func (s *UserService) Create(ctx context.Context, in ports.UserCreateInput) (string, error) {
	userName := strings.TrimSpace(in.UserName)
	if userName == "" {
		return "", domain.NewValidationError("用户名不能为空")
	}
	if err := s.ensureNameFree(ctx, userName, ""); err != nil {
		return "", err
	}
	if err := checkPassword(in.Password); err != nil {
		return "", err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return "", err
	}
	status := in.Status
	if status == "" {
		status = domain.StatusNormal
	}

	user := &domain.User{
		ID:           s.newID(),
		UserName:     &userName,
		PasswordHash: hash,
		Email:        in.Email,
		Role:         in.Role,
		Avatar:       in.Avatar,
		Status:       status,
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		return "", err
	}
	s.log.Info().Str("user_id", user.ID).Str("user_name", userName).Msg("user created")
	return user.ID, nil
}

func (s *UserService) Update(ctx context.Context, in ports.UserUpdateInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return domain.NewValidationError("无效的用户ID")
	}
	if _, err := s.repo.FindByID(ctx, in.ID); err != nil {
		return err
	}

	ch := ports.UserChanges{
		ID:     in.ID,
		Email:  in.Email,
		Role:   in.Role,
		Avatar: in.Avatar,
		Status: in.Status,
	}
	if in.UserName != nil {
		userName := strings.TrimSpace(*in.UserName)
		if userName == "" {
			return domain.NewValidationError("用户名不能为空")
		}
		if err := s.ensureNameFree(ctx, userName, in.ID); err != nil {
			return err
		}
		ch.UserName = &userName
	}
	if in.Password != nil {
		if err := checkPassword(*in.Password); err != nil {
			return err
		}
		hash, err := s.hash(*in.Password)
		if err != nil {
			return err
		}
		ch.PasswordHash = &hash
	}

	if err := s.repo.Update(ctx, ch); err != nil {
		return err
	}
	s.log.Info().Str("user_id", in.ID).Bool("password_changed", ch.PasswordHash != nil).Msg("user updated")
	return nil
}

// Delete soft-deletes the user by setting its status to VOID.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("无效的用户ID")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user soft-deleted")
	return nil
}

// ensureNameFree fails with domain.ErrUserExists when another active account
// uses userName. selfID is ignored so a user may keep its own name.
func (s *UserService) ensureNameFree(ctx context.Context, userName, selfID string) error {
	existing, err := s.repo.FindActiveByUserName(ctx, userName)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID == selfID:
		return nil
	default:
		return domain.ErrUserExists
	}
}

func checkPassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return domain.FieldErrors(map[string]string{"password": "密码长度至少6位"}, []string{"password"})
	}
	return nil
}
