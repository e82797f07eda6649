package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"anoa.com/yamdb/internal/entity"
	"anoa.com/yamdb/internal/modules/user/dto"
	"anoa.com/yamdb/internal/modules/user/repository"
	"anoa.com/yamdb/pkg/apperror"
	"anoa.com/yamdb/pkg/mailer"
	"gorm.io/gorm"
)

const (
	reservedUsername       = "me"
	actionConfirmationCode = "confirmation_code"
)

// ErrAlreadyRegistered is returned after a fresh code was mailed to an
// account that already exists for the submitted username and email.
var ErrAlreadyRegistered = apperror.New(http.StatusBadRequest,
	"user is already registered, a new confirmation code has been sent", apperror.ErrInvalidInput)

type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	ObtainToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
}

type CodeGenerator interface {
	Make(state string) string
	Check(state, code string) bool
}

type TokenIssuer interface {
	Issue(userID uint) (string, error)
}

type RateLimiter interface {
	Enforce(ctx context.Context, subject, action string, limit time.Duration) error
	Clear(ctx context.Context, subject, action string) error
}

type AuthConfig struct {
	MailFrom       string
	SignupCooldown time.Duration
}

type authService struct {
	repo    repository.UserRepository
	mailer  mailer.Mailer
	codes   CodeGenerator
	tokens  TokenIssuer
	limiter RateLimiter
	cfg     AuthConfig
	now     func() time.Time
}

func NewAuthService(repo repository.UserRepository, m mailer.Mailer, codes CodeGenerator, tokens TokenIssuer, limiter RateLimiter, cfg AuthConfig) AuthService {
	return &authService{
		repo:    repo,
		mailer:  m,
		codes:   codes,
		tokens:  tokens,
		limiter: limiter,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	if strings.EqualFold(req.Username, reservedUsername) {
		return nil, apperror.Validation("username %q is reserved", req.Username)
	}

	existing, err := s.repo.FindByUsernameAndEmail(ctx, req.Username, req.Email)
	if err == nil {
		// inside the cooldown the previous code is still on its way
		if err := s.sendCode(ctx, existing); err != nil && !errors.Is(err, apperror.ErrRateLimitExceeded) {
			return nil, err
		}
		return nil, ErrAlreadyRegistered
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := ensureUnique(ctx, s.repo, req.Username, req.Email); err != nil {
		return nil, err
	}

	user := &entity.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     entity.RoleUser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Validation("a user with that username or email already exists")
		}
		return nil, err
	}

	if err := s.sendCode(ctx, user); err != nil {
		// an account nobody can confirm is dropped so the signup can be retried
		if delErr := s.repo.Delete(context.WithoutCancel(ctx), user.ID); delErr != nil {
			return nil, errors.Join(err, fmt.Errorf("roll back signup: %w", delErr))
		}
		return nil, err
	}

	return &dto.SignupResponse{Username: user.Username, Email: user.Email}, nil
}

func (s *authService) ObtainToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user %q not found", req.Username)
		}
		return nil, err
	}

	if !s.codes.Check(user.ConfirmationState(), req.ConfirmationCode) {
		return nil, apperror.Validation("invalid confirmation code")
	}

	signed, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	// last_login is part of the code state, so this also burns the code
	if err := s.repo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}

	return &dto.TokenResponse{Token: signed}, nil
}

func (s *authService) sendCode(ctx context.Context, user *entity.User) error {
	if err := s.limiter.Enforce(ctx, user.Email, actionConfirmationCode, s.cfg.SignupCooldown); err != nil {
		return err
	}

	msg := mailer.Message{
		Subject: "YaMDb confirmation code",
		Body:    fmt.Sprintf("Hello %s,\n\nyour confirmation code is: %s\n", user.Username, s.codes.Make(user.ConfirmationState())),
		From:    s.cfg.MailFrom,
		To:      []string{user.Email},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		_ = s.limiter.Clear(ctx, user.Email, actionConfirmationCode)
		return fmt.Errorf("send confirmation code: %w", err)
	}
	return nil
}

// ensureUnique reports a validation error when username or email is already
// bound to a different account.
func ensureUnique(ctx context.Context, repo repository.UserRepository, username, email string) error {
	if username != "" {
		if _, err := repo.FindByUsername(ctx, username); err == nil {
			return apperror.Validation("a user with username %q already exists", username)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	if email != "" {
		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return apperror.Validation("a user with email %q already exists", email)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	return nil
}
