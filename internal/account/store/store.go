package store

import (
	"context"
	"database/sql"

	"github.com/MrJamesThe3rd/pocketbook/internal/database"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListAccounts(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM accounts ORDER BY name`)
	if err != nil {
		return nil, database.Wrap("listing accounts", err)
	}
	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, database.Wrap("scanning account", err)
		}

		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Wrap("iterating accounts", err)
	}

	return names, nil
}

func (s *Store) CreateAccount(ctx context.Context, name string) error {
	query := `INSERT INTO accounts (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, name); err != nil {
		return database.Wrap("creating account", err)
	}

	return nil
}
