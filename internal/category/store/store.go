package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/database"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListNamesByKind(ctx context.Context, kind category.Kind) ([]string, error) {
	query := `SELECT name FROM categories WHERE kind = $1 ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, kind)
	if err != nil {
		return nil, database.Wrap("listing category names", err)
	}
	defer rows.Close()

	names := []string{}

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, database.Wrap("scanning category name", err)
		}

		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Wrap("iterating category names", err)
	}

	return names, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]*category.Category, error) {
	query := `SELECT id, name, kind, created_at FROM categories ORDER BY kind, name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, database.Wrap("listing categories", err)
	}
	defer rows.Close()

	var cats []*category.Category

	for rows.Next() {
		var (
			c    category.Category
			kind string
		)

		if err := rows.Scan(&c.ID, &c.Name, &kind, &c.CreatedAt); err != nil {
			return nil, database.Wrap("scanning category", err)
		}

		c.Kind = category.Kind(kind)
		cats = append(cats, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Wrap("iterating categories", err)
	}

	return cats, nil
}

func (s *Store) CreateCategory(ctx context.Context, name string, kind category.Kind) error {
	query := `
		INSERT INTO categories (name, kind)
		VALUES ($1, $2)
		ON CONFLICT (name, kind) DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, query, name, kind); err != nil {
		return database.Wrap("creating category", err)
	}

	return nil
}

func (s *Store) FindCategoryID(ctx context.Context, name string, kind category.Kind) (*uuid.UUID, error) {
	query := `SELECT id FROM categories WHERE name = $1 AND kind = $2`

	var id uuid.UUID

	err := s.db.QueryRowContext(ctx, query, name, kind).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, database.Wrap("finding category", err)
	}

	return &id, nil
}

// UpsertCategory inserts the category or touches the existing row, returning its id
// either way. The loser of a concurrent insert on the same (name, kind) blocks on the
// unique index and then takes the DO UPDATE branch, so both see the same id.
func (s *Store) UpsertCategory(ctx context.Context, name string, kind category.Kind) (uuid.UUID, error) {
	query := `
		INSERT INTO categories (name, kind)
		VALUES ($1, $2)
		ON CONFLICT (name, kind) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`

	var id uuid.UUID

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, name, kind).Scan(&id)
	})
	if err != nil {
		return uuid.Nil, database.Wrap("upserting category", err)
	}

	return id, nil
}
