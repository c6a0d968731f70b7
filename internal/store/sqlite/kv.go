package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tmarques/flashdeck/internal/logger"
	"github.com/tmarques/flashdeck/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// KV is a sqlite-backed key-value store holding one JSON document per record
// key. It satisfies store.KV.
type KV struct {
	db  *sql.DB
	log *logger.Logger
}

var _ store.KV = (*KV)(nil)

// Open opens (creating if needed) the database at path and applies pending
// migrations.
func Open(path string) (*KV, error) {
	log := logger.Default().WithPrefix("store")

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL", path)
	log.Info("opening database: %s", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}
	db.SetMaxOpenConns(1) // SQLite best practice for single writer

	kv := &KV{db: db, log: log}

	log.Debug("applying migrations")
	if err := kv.applyMigrations(context.Background()); err != nil {
		log.Error("failed to apply migrations: %v", err)
		db.Close()
		return nil, err
	}

	log.Info("database ready")
	return kv, nil
}

func (k *KV) applyMigrations(ctx context.Context) error {
	if _, err := k.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return err
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		version := entry.Name()
		applied, err := k.isMigrationApplied(ctx, version)
		if err != nil {
			return err
		}
		if applied {
			k.log.Debug("migration %s already applied, skipping", version)
			continue
		}
		sqlBytes, err := migrationsFS.ReadFile("migrations/" + version)
		if err != nil {
			return err
		}
		k.log.Info("applying migration: %s", version)
		if _, err := k.db.ExecContext(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if _, err := k.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return err
		}
	}
	return nil
}

func (k *KV) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var count int
	err := k.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Get returns the value stored under key, or (nil, nil) when the key has
// never been written.
func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := sqlBuilder.
		Select("value").
		From("records").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var value string
	err = k.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		k.log.Error("failed to get record %q: %v", key, err)
		return nil, err
	}
	return []byte(value), nil
}

// Set writes value under key, replacing any previous value.
func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := sqlBuilder.
		Insert("records").
		Columns("key", "value").
		Values(key, string(value)).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		k.log.Error("failed to set record %q: %v", key, err)
		return err
	}
	k.log.Debug("record written: key=%s, size=%d", key, len(value))
	return nil
}

// Delete removes key; deleting an absent key is a no-op.
func (k *KV) Delete(ctx context.Context, key string) error {
	query, args, err := sqlBuilder.
		Delete("records").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := k.db.ExecContext(ctx, query, args...); err != nil {
		k.log.Error("failed to delete record %q: %v", key, err)
		return err
	}
	return nil
}

// Close closes the underlying database.
func (k *KV) Close() error {
	return k.db.Close()
}
