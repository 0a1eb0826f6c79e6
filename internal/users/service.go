package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/docugrade/docugrade/internal/models"
	"github.com/docugrade/docugrade/internal/tokens"
)

// ErrInvalidCredentials covers both "no such account" and "wrong password".
// Collapsing the two is deliberate: a login response must not reveal whether
// an email is registered.
var ErrInvalidCredentials = errors.New("incorrect email or password")

// Service encapsulates registration and login on top of a Repository.
type Service struct {
	repo   Repository
	issuer *tokens.Issuer
}

func NewService(repo Repository, issuer *tokens.Issuer) *Service {
	return &Service{repo: repo, issuer: issuer}
}

// Register creates a new account. The pre-check is an optimistic fast path;
// the repository's uniqueness guarantee catches the race where two requests
// pass the check with the same email, so at most one of them ever succeeds.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}
	hash, err := tokens.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	u := &models.User{Email: email, PasswordHash: hash}
	return s.repo.Insert(ctx, u)
}

// Login verifies credentials and returns a bearer token whose subject is the
// user's email. Unknown email and bad password are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrInvalidCredentials
	}
	ok, err := tokens.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		// stored hash is structurally broken; not a login failure
		return "", fmt.Errorf("login: %w", err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}
	return s.issuer.IssueDefault(u.Email)
}

// GetByEmail resolves an account by exact email match; nil when absent.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, email)
}
