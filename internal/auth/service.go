package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mobistore/mobistore/internal/account"
	"github.com/mobistore/mobistore/internal/config"
)

// ErrBadCredentials indicates the email/password pair does not match an account.
var ErrBadCredentials = errors.New("bad credentials")

// Service issues access tokens for valid credentials.
type Service struct {
	cfg  config.Config
	repo account.Repository
}

// NewService creates a new auth service.
func NewService(cfg config.Config, repo account.Repository) *Service {
	return &Service{cfg: cfg, repo: repo}
}

// TokenResult is the outcome of a successful login.
type TokenResult struct {
	Token     string
	ExpiresIn int64
}

// Login verifies the credentials and signs an access token.
// Lookup and compare failures collapse into ErrBadCredentials so the
// response does not reveal whether the email exists.
func (s *Service) Login(ctx context.Context, email, password string) (TokenResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return TokenResult{}, ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return TokenResult{}, ErrBadCredentials
	}

	token, exp, err := Sign(user, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return TokenResult{}, err
	}

	return TokenResult{Token: token, ExpiresIn: int64(time.Until(exp).Seconds())}, nil
}
