package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type SQLConfig struct {
	Driver          string // "sqlite3" or "mysql"
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type dialect struct {
	schema    string
	upsert    string
	selectTx  string
	singleCon bool
}

var dialects = map[string]dialect{
	"sqlite3": {
		schema: `
        CREATE TABLE IF NOT EXISTS kv_entries (
            k          TEXT PRIMARY KEY,
            v          BLOB NOT NULL,
            updated_at TIMESTAMP NOT NULL
        )`,
		upsert: `
        INSERT INTO kv_entries (k, v, updated_at) VALUES (?, ?, ?)
        ON CONFLICT (k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at`,
		selectTx:  `SELECT v FROM kv_entries WHERE k = ?`,
		singleCon: true,
	},
	"mysql": {
		schema: `
        CREATE TABLE IF NOT EXISTS kv_entries (
            k          VARCHAR(191) NOT NULL PRIMARY KEY,
            v          LONGBLOB NOT NULL,
            updated_at DATETIME(6) NOT NULL
        )`,
		upsert: `
        INSERT INTO kv_entries (k, v, updated_at) VALUES (?, ?, ?)
        ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = VALUES(updated_at)`,
		selectTx: `SELECT v FROM kv_entries WHERE k = ? FOR UPDATE`,
	},
}

// SQLStore keeps documents in a single kv_entries table.
type SQLStore struct {
	DB      *sqlx.DB
	dialect dialect
}

func NewSQLStore(ctx context.Context, cfg *SQLConfig) (*SQLStore, error) {
	d, ok := dialects[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if d.singleCon {
		// sqlite has a single writer; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLStore{DB: db, dialect: d}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return getEntry(ctx, s.DB, `SELECT v FROM kv_entries WHERE k = ?`, key)
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.DB.ExecContext(ctx, s.dialect.upsert, key, value, time.Now().UTC())
	return err
}

func (s *SQLStore) Update(ctx context.Context, fn func(tx KV) error) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{tx: tx, dialect: s.dialect}); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.DB.Close()
}

type sqlTx struct {
	tx      *sqlx.Tx
	dialect dialect
}

func (t *sqlTx) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return getEntry(ctx, t.tx, t.dialect.selectTx, key)
}

func (t *sqlTx) Set(ctx context.Context, key string, value []byte) error {
	_, err := t.tx.ExecContext(ctx, t.dialect.upsert, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func getEntry(ctx context.Context, q sqlx.QueryerContext, query, key string) ([]byte, bool, error) {
	var v []byte
	err := sqlx.GetContext(ctx, q, &v, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}
