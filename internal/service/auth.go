package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/notify"
	"github.com/ormeet/ormeet-api/internal/pkg/random"
	"github.com/ormeet/ormeet-api/internal/repository"
)

const resetTokenTTL = time.Hour

var (
	ErrUserEmailExists   = repository.ErrUserEmailExists
	ErrWrongPassword     = errors.New("wrong password")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrResetEmailNotSent = errors.New("failed to send password reset email")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByResetToken(ctx context.Context, token string) (domain.User, error)
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, id, hash string) error
}

type AuthService struct {
	repo        AuthUserRepository
	notifier    Notifier
	sender      Sender
	frontendURL string
	now         clock
}

func NewAuthService(repo AuthUserRepository, notifier Notifier, sender Sender, frontendURL string) *AuthService {
	return &AuthService{
		repo:        repo,
		notifier:    notifier,
		sender:      sender,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	hash, err := hashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = hash
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.notifier.Enqueue(notify.Welcome(created.Email, notify.WelcomeData{
		Name:   created.Name,
		AppURL: s.frontendURL,
	}))

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

// ForgotPassword stores a reset token and emails the reset link. Unknown
// emails succeed silently so the endpoint does not reveal which accounts exist.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			zap.L().Info("password reset requested for unknown email")
			return nil
		}

		return fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	token, err := random.Code(32)
	if err != nil {
		return fmt.Errorf("random.Code -> %w", err)
	}

	if err = s.repo.SetResetToken(ctx, user.ID, token, s.now().Add(resetTokenTTL)); err != nil {
		return fmt.Errorf("s.repo.SetResetToken -> %w", err)
	}

	err = s.sender.Send(ctx, notify.PasswordReset(user.Email, notify.PasswordResetData{
		Name:     user.Name,
		ResetURL: s.frontendURL + "/reset-password?token=" + token,
	}))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResetEmailNotSent, err)
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	user, err := s.repo.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}

		return fmt.Errorf("s.repo.FindByResetToken -> %w", err)
	}

	if user.PasswordResetExpiresAt == nil || s.now().After(*user.PasswordResetExpiresAt) {
		return ErrInvalidResetToken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	if err = s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("s.repo.UpdatePassword -> %w", err)
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	return string(hash), nil
}
