// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/neonreach/neonreach/internal/game"
)

// poolIface is the part of *pgxpool.Pool the store uses. pgxmock's pool
// satisfies it in tests.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pinger interface {
	Ping(ctx context.Context) error
}

// ConnectOptions tunes the startup ping loop.
type ConnectOptions struct {
	Attempts uint64
	Backoff  time.Duration
	Logger   *slog.Logger
}

// DefaultConnectOptions retries five times starting at 200ms.
func DefaultConnectOptions() ConnectOptions {
	return ConnectOptions{Attempts: 5, Backoff: 200 * time.Millisecond}
}

// PostgresStore keeps snapshots in the snapshots table as jsonb.
type PostgresStore struct {
	pool  poolIface
	close func()
	now   func() time.Time
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(pool poolIface) *PostgresStore {
	return &PostgresStore{
		pool:  pool,
		close: func() {},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Connect opens a pool and waits for the database to answer a ping.
func Connect(ctx context.Context, databaseURL string, opts ConnectOptions) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code(CodeStoreConnect).With("operation", "create pool").Wrap(err)
	}
	if err := pingWithRetry(ctx, pool, opts); err != nil {
		pool.Close()
		return nil, err
	}
	s := NewPostgresStore(pool)
	s.close = pool.Close
	return s, nil
}

func pingWithRetry(ctx context.Context, p pinger, opts ConnectOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attempts := opts.Attempts
	if attempts == 0 {
		attempts = 1
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}

	var try int
	b := retry.WithMaxRetries(attempts-1, retry.NewExponential(backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		try++
		if err := p.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "database ping failed", "attempt", try, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return oops.Code(CodeStoreConnect).
			With("operation", "ping").
			With("attempts", try).
			Wrap(err)
	}
	return nil
}

// Close releases the pool when the store opened it.
func (s *PostgresStore) Close() {
	s.close()
}

// queryError maps a missing snapshots table to CodeNotMigrated.
func queryError(err error, operation string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return oops.Code(CodeNotMigrated).
			With("operation", operation).
			Hint("run `neonreach migrate up`").
			Wrap(err)
	}
	return oops.Code(CodeStoreQuery).With("operation", operation).Wrap(err)
}

// Save implements Store. An existing snapshot of the same name is replaced.
func (s *PostgresStore) Save(ctx context.Context, name string, st *game.State) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	body, err := json.Marshal(st)
	if err != nil {
		return oops.Code(CodeSnapshotWrite).With("name", name).Wrap(err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO snapshots (name, version, body, saved_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO UPDATE
		 SET version = EXCLUDED.version, body = EXCLUDED.body, saved_at = EXCLUDED.saved_at`,
		name, st.Version, body, s.now())
	if err != nil {
		return queryError(err, "save snapshot")
	}
	return nil
}

// Load implements Store.
func (s *PostgresStore) Load(ctx context.Context, name string) (*game.State, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	var body []byte
	err := s.pool.QueryRow(ctx, `SELECT body FROM snapshots WHERE name = $1`, name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errNotFound(name)
	}
	if err != nil {
		return nil, queryError(err, "load snapshot")
	}
	return decodeState(body, "name", name)
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `SELECT name, version, saved_at FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, queryError(err, "list snapshots")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Version, &e.SavedAt); err != nil {
			return nil, oops.Code(CodeStoreQuery).With("operation", "scan snapshot").Wrap(err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(err, "list snapshots")
	}
	return out, nil
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM snapshots WHERE name = $1`, name)
	if err != nil {
		return false, queryError(err, "delete snapshot")
	}
	return tag.RowsAffected() > 0, nil
}
