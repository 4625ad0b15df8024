package staff

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/schoolclinic/cms/internal/platform/auth"
)

// ValidationError marks a signup/login failure caught before any
// storage call.
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

type Service struct {
	repo   Repository
	signer *auth.Signer
	now    func() time.Time
}

func NewService(repo Repository, signer *auth.Signer) *Service {
	return &Service{repo: repo, signer: signer, now: time.Now}
}

// SetClock overrides the account-creation clock, for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Signup registers a new staff account with a bcrypt-hashed password.
func (s *Service) Signup(ctx context.Context, username, password, confirm string) (*Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &ValidationError{msg: "username cannot be empty"}
	}
	if password == "" {
		return nil, &ValidationError{msg: "password cannot be empty"}
	}
	if password != confirm {
		return nil, &ValidationError{msg: "passwords do not match"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	a := &Account{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Login checks the credentials and issues a session token. Unknown
// usernames and wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", &ValidationError{msg: "username cannot be empty"}
	}
	if password == "" {
		return "", &ValidationError{msg: "password cannot be empty"}
	}

	a, err := s.repo.GetByUsername(ctx, username)
	if err == ErrNotFound {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return s.signer.Issue(a.Username)
}
