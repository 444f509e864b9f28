package account

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidName = errors.New("account name must not be blank")

//go:generate mockgen -source=account.go -destination=repository_mock.go -package=account
type Repository interface {
	ListAccounts(ctx context.Context) ([]string, error)
	CreateAccount(ctx context.Context, name string) error
}

// Service manages the free-text account labels offered when adding transactions.
// Transactions store the label itself, not a reference.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns account names in alphabetical order.
func (s *Service) List(ctx context.Context) ([]string, error) {
	names, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	if names == nil {
		names = []string{}
	}

	return names, nil
}

// Create adds an account label; an existing name is a no-op.
func (s *Service) Create(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}

	return s.repo.CreateAccount(ctx, name)
}
