package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction expects the columns of selectTransactionColumns, in order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx           transaction.Transaction
		categoryName sql.NullString
		categoryKind sql.NullString
	)

	if err := s.Scan(
		&tx.ID, &tx.Date, &tx.Description, &tx.Amount, &tx.CategoryID, &tx.Account, &tx.CreatedAt,
		&categoryName, &categoryKind,
	); err != nil {
		return nil, err
	}

	tx.CategoryName = categoryName.String
	tx.CategoryKind = category.Kind(categoryKind.String)

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.tx_date, t.description, t.amount, t.category_id, t.account, t.created_at,
	c.name AS category_name, c.kind AS category_kind
`

// where renders the filter as AND-ed conditions starting at placeholder argIdx.
func where(filter transaction.Filter, argIdx int) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.Start != nil {
		conds = append(conds, fmt.Sprintf("t.tx_date >= $%d", argIdx))

		args = append(args, *filter.Start)
		argIdx++
	}

	if filter.End != nil {
		conds = append(conds, fmt.Sprintf("t.tx_date <= $%d", argIdx))

		args = append(args, *filter.End)
		argIdx++
	}

	if len(filter.CategoryIDs) > 0 {
		ids := make([]string, len(filter.CategoryIDs))
		for i, id := range filter.CategoryIDs {
			ids[i] = id.String()
		}

		conds = append(conds, fmt.Sprintf("t.category_id = ANY($%d::uuid[])", argIdx))

		args = append(args, ids)
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " AND " + strings.Join(conds, " AND "), args
}

func (s *Store) SumExpenses(ctx context.Context, filter transaction.Filter) (decimal.Decimal, error) {
	cond, args := where(filter, 1)

	query := `SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE c.kind = 'expense'` + cond

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, database.Wrap("summing expenses", err)
	}

	return total, nil
}

func (s *Store) CountTransactions(ctx context.Context, filter transaction.Filter) (int64, error) {
	cond, args := where(filter, 1)

	query := `SELECT COUNT(*) FROM transactions t WHERE TRUE` + cond

	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, database.Wrap("counting transactions", err)
	}

	return n, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error) {
	cond, args := where(filter, 1)

	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE TRUE` + cond + `
		ORDER BY t.tx_date DESC, t.created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)

		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Wrap("listing transactions", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, database.Wrap("scanning transaction", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, database.Wrap("iterating transactions", err)
	}

	return txs, nil
}

const insertTransaction = `
	INSERT INTO transactions (tx_date, description, amount, category_id, account)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at
`

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insert(ctx context.Context, q execer, tx *transaction.Transaction) error {
	return q.QueryRowContext(ctx, insertTransaction,
		tx.Date,
		tx.Description,
		tx.Amount,
		tx.CategoryID,
		tx.Account,
	).Scan(&tx.ID, &tx.CreatedAt)
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	if err := insert(ctx, s.db, tx); err != nil {
		return database.Wrap("creating transaction", err)
	}

	return nil
}

// CreateWithCategoryName looks the category up and inserts tx inside one
// database transaction, so a category removed in between cannot leave a
// dangling reference.
func (s *Store) CreateWithCategoryName(ctx context.Context, tx *transaction.Transaction, name string, kind category.Kind) (int, error) {
	query := `SELECT id, kind FROM categories WHERE name = $1`
	args := []any{name}

	if kind != "" {
		query += ` AND kind = $2`

		args = append(args, kind)
	}

	var matches int

	err := database.WithTx(ctx, s.db, func(dbTx *sql.Tx) error {
		rows, err := dbTx.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("finding category: %w", err)
		}

		var (
			id    uuid.UUID
			found string
		)

		for rows.Next() {
			if err := rows.Scan(&id, &found); err != nil {
				rows.Close()
				return fmt.Errorf("scanning category: %w", err)
			}

			matches++
		}

		rows.Close()

		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating categories: %w", err)
		}

		tx.CategoryID, tx.CategoryName, tx.CategoryKind = nil, "", ""

		if matches == 1 {
			tx.CategoryID = &id
			tx.CategoryName = name
			tx.CategoryKind = category.Kind(found)
		}

		return insert(ctx, dbTx, tx)
	})
	if err != nil {
		return 0, database.Wrap("creating transaction by category name", err)
	}

	return matches, nil
}
