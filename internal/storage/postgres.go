package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
)

// PostgresStore keeps the seen-set in a PostgreSQL table. Insertion order is
// preserved through the position column.
type PostgresStore struct {
	db  *sql.DB
	log *slog.Logger
}

// NewPostgresStore connects, pings and makes sure the schema exists.
func NewPostgresStore(ctx context.Context, connectionString string, log *slog.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db, log: log}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Info("PostgreSQL seen-set store connected")
	return store, nil
}

func (ps *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS published_urls (
		url TEXT PRIMARY KEY,
		position BIGSERIAL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_published_urls_position ON published_urls(position);
	`

	if _, err := ps.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Load returns every stored URL ordered by first insertion.
func (ps *PostgresStore) Load(ctx context.Context) (*SeenSet, error) {
	rows, err := ps.db.QueryContext(ctx, `SELECT url FROM published_urls ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query seen-set: %w", err)
	}
	defer rows.Close()

	set := NewSeenSet()
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan seen-set row: %w", err)
		}
		set.Add(u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seen-set rows: %w", err)
	}
	return set, nil
}

// Save upserts every member in one transaction. The set only grows during a
// run, so this is equivalent to overwriting the table.
func (ps *PostgresStore) Save(ctx context.Context, set *SeenSet) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO published_urls (url) VALUES ($1) ON CONFLICT (url) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, u := range set.URLs() {
		res, err := stmt.ExecContext(ctx, u)
		if err != nil {
			return fmt.Errorf("failed to insert %s: %w", u, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seen-set: %w", err)
	}

	ps.log.Debug("Seen-set saved", slog.Int("total", set.Len()), slog.Int("inserted", inserted))
	return nil
}

// Close closes the database connection
func (ps *PostgresStore) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}
