package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLite is a single-file repository for running without cloud services.
type SQLite struct {
	db *sql.DB
	eb *goerr.Builder
}

var _ interfaces.Repository = &SQLite{}

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// New opens (or creates) the database at path and applies pending
// migrations. Pass MemoryDSN for an in-memory database.
func New(ctx context.Context, path string) (*SQLite, error) {
	eb := goerr.NewBuilder(
		goerr.TV(errs.RepositoryKey, "sqlite"),
		goerr.V("path", path),
	)

	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, eb.Wrap(err, "failed to create database directory", goerr.T(errs.TagStorage))
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eb.Wrap(err, "failed to open database", goerr.T(errs.TagStorage))
	}
	// A single connection avoids "database is locked" and keeps an in-memory
	// database alive.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, eb.Wrap(err, "failed to configure database",
				goerr.V("pragma", p),
				goerr.T(errs.TagStorage))
		}
	}

	r := &SQLite{db: db, eb: eb}
	if err := r.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLite) Close() error {
	return r.db.Close()
}

func (r *SQLite) migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return r.eb.Wrap(err, "failed to create schema_version table", goerr.T(errs.TagStorage))
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return r.eb.Wrap(err, "failed to read migrations", goerr.T(errs.TagInternal))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		if err := r.applyMigration(ctx, entry.Name()); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLite) applyMigration(ctx context.Context, name string) error {
	var version int
	if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
		return r.eb.Wrap(err, "invalid migration file name",
			goerr.V("file", name),
			goerr.T(errs.TagInternal))
	}

	var applied int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&applied); err != nil {
		return r.eb.Wrap(err, "failed to check migration", goerr.V("version", version), goerr.T(errs.TagStorage))
	}
	if applied > 0 {
		return nil
	}

	content, err := migrationsFS.ReadFile("migrations/" + name)
	if err != nil {
		return r.eb.Wrap(err, "failed to read migration", goerr.V("file", name), goerr.T(errs.TagInternal))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return r.eb.Wrap(err, "failed to begin migration", goerr.V("version", version), goerr.T(errs.TagStorage))
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return r.eb.Wrap(err, "failed to apply migration", goerr.V("version", version), goerr.T(errs.TagStorage))
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
		return r.eb.Wrap(err, "failed to record migration", goerr.V("version", version), goerr.T(errs.TagStorage))
	}
	if err := tx.Commit(); err != nil {
		return r.eb.Wrap(err, "failed to commit migration", goerr.V("version", version), goerr.T(errs.TagStorage))
	}
	return nil
}

// AppliedMigrations returns applied migration versions in ascending order.
func (r *SQLite) AppliedMigrations(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, r.eb.Wrap(err, "failed to list migrations", goerr.T(errs.TagStorage))
	}
	defer func() { _ = rows.Close() }()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, r.eb.Wrap(err, "failed to scan migration", goerr.T(errs.TagStorage))
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, r.eb.Wrap(err, "failed to list migrations", goerr.T(errs.TagStorage))
	}
	return versions, nil
}

// Times are stored as unix nanoseconds so range queries compare numerically.
func toUnix(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
