package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PoolConfig bounds the connection pool shared by every store.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

var defaultPool = PoolConfig{
	MaxOpenConns:    25,
	MaxIdleConns:    5,
	ConnMaxLifetime: 5 * time.Minute,
}

// New opens and pings a pgx-backed handle. The caller owns it and must Close it.
func New(connStr string, opts ...func(*PoolConfig)) (*sql.DB, error) {
	pool := defaultPool
	for _, opt := range opts {
		opt(&pool)
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	return db, nil
}

// WithPool overrides the default pool limits; zero values keep the default.
func WithPool(p PoolConfig) func(*PoolConfig) {
	return func(c *PoolConfig) {
		if p.MaxOpenConns > 0 {
			c.MaxOpenConns = p.MaxOpenConns
		}

		if p.MaxIdleConns > 0 {
			c.MaxIdleConns = p.MaxIdleConns
		}

		if p.ConnMaxLifetime > 0 {
			c.ConnMaxLifetime = p.ConnMaxLifetime
		}
	}
}
