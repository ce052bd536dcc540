package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

// Driver names a supported SQL backend.
type Driver string

// Supported drivers. DriverMemory selects MemoryStore and is not accepted by Open.
const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a database for driver and makes sure the shares table exists.
// An empty dsn selects a local default.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:mcr.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/mcr?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := ensureSchema(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("schema %s: %w", driver, err)
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	schema := schemaSQLite
	if driver == DriverPostgres {
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS shares (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  params TEXT NOT NULL,
  upvotes INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS shares_created_at ON shares (created_at DESC);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS shares (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  params TEXT NOT NULL,
  upvotes INTEGER NOT NULL DEFAULT 0,
  created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS shares_created_at ON shares (created_at DESC);
`

// SQLStore keeps shares in a SQL database opened with Open.
type SQLStore struct {
	settings

	db     *sql.DB
	driver Driver
}

// NewSQLStore wraps db. The store owns db and closes it on Close.
func NewSQLStore(db *sql.DB, driver Driver, opts ...Option) *SQLStore {
	return &SQLStore{
		settings: defaultSettings(opts),
		db:       db,
		driver:   driver,
	}
}

// OpenSQLStore is Open followed by NewSQLStore.
func OpenSQLStore(ctx context.Context, driver Driver, dsn string, opts ...Option) (*SQLStore, error) {
	db, err := Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	return NewSQLStore(db, driver, opts...), nil
}

// rebind rewrites ? placeholders as $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Create(ctx context.Context, name, params string) (Share, error) {
	sh, err := newShare(s.settings, name, params)
	if err != nil {
		return Share{}, err
	}
	_, err = s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO shares (id, name, params, upvotes, created_at) VALUES (?, ?, ?, ?, ?)`),
		sh.ID, sh.Name, sh.Params, sh.Upvotes, sh.CreatedAt.UnixNano())
	if err != nil {
		return Share{}, fmt.Errorf("insert share: %w", err)
	}
	return sh, nil
}

func (s *SQLStore) List(ctx context.Context, limit int) ([]Share, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, name, params, upvotes, created_at FROM shares ORDER BY created_at DESC, id ASC LIMIT ?`),
		limit)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()

	out := make([]Share, 0, limit)
	for rows.Next() {
		sh, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	return out, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Share, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, name, params, upvotes, created_at FROM shares WHERE id = ?`), id)
	sh, err := scanShare(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Share{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return sh, err
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM shares WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete share: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete share: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shares`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count shares: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanShare(sc scanner) (Share, error) {
	var (
		sh      Share
		created int64
	)
	if err := sc.Scan(&sh.ID, &sh.Name, &sh.Params, &sh.Upvotes, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Share{}, err
		}
		return Share{}, fmt.Errorf("scan share: %w", err)
	}
	sh.CreatedAt = time.Unix(0, created).UTC()
	return sh, nil
}
