package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	ListNamesByKind(ctx context.Context, kind Kind) ([]string, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	CreateCategory(ctx context.Context, name string, kind Kind) error
	FindCategoryID(ctx context.Context, name string, kind Kind) (*uuid.UUID, error)
	UpsertCategory(ctx context.Context, name string, kind Kind) (uuid.UUID, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListByKind returns category names of the given kind in alphabetical order.
func (s *Service) ListByKind(ctx context.Context, kind Kind) ([]string, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	names, err := s.repo.ListNamesByKind(ctx, kind)
	if err != nil {
		return nil, err
	}

	if names == nil {
		names = []string{}
	}

	return names, nil
}

// ListAll returns every category ordered by kind, then name.
func (s *Service) ListAll(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

// Create adds a category. Creating an existing (name, kind) pair is a no-op.
func (s *Service) Create(ctx context.Context, name string, kind Kind) error {
	name, err := validate(name, kind)
	if err != nil {
		return err
	}

	return s.repo.CreateCategory(ctx, name, kind)
}

// IDByName looks up a category id by its natural key. It returns nil when absent.
func (s *Service) IDByName(ctx context.Context, name string, kind Kind) (*uuid.UUID, error) {
	name, err := validate(name, kind)
	if err != nil {
		return nil, err
	}

	return s.repo.FindCategoryID(ctx, name, kind)
}

// GetOrCreate returns the id of the (name, kind) category, creating it when absent.
// Concurrent callers with the same arguments all receive the same id.
func (s *Service) GetOrCreate(ctx context.Context, name string, kind Kind) (uuid.UUID, error) {
	name, err := validate(name, kind)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := s.repo.UpsertCategory(ctx, name, kind)
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func validate(name string, kind Kind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	return normalizeName(name)
}
