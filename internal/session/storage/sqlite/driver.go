package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/skybi/portal-client/internal/session"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Driver represents the SQLite session store driver implementation.
// It persists the session state across process restarts in a single local file.
type Driver struct {
	path string
	db   *sql.DB
}

var _ session.Store = (*Driver)(nil)

// New creates a new empty SQLite session store driver.
// Use Initialize to open the database file and migrate the schema.
func New(path string) *Driver {
	return &Driver{
		path: path,
	}
}

// Initialize opens the database file and migrates the schema
func (driver *Driver) Initialize(_ context.Context) error {
	// Perform SQL migrations
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	migrator, err := migrate.NewWithSourceInstance("iofs", source, "sqlite3://"+driver.path)
	if err != nil {
		return err
	}
	defer migrator.Close()
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	// Open the database connection
	db, err := sql.Open("sqlite3", driver.path)
	if err != nil {
		return err
	}
	driver.db = db

	return nil
}

// Get retrieves the value assigned to a key
func (driver *Driver) Get(ctx context.Context, key string) (string, error) {
	query, vals, err := squirrel.Select("value").From("entries").Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return "", err
	}

	var value string
	if err := driver.db.QueryRowContext(ctx, query, vals...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// Set assigns a value to a key, overwriting any previous value
func (driver *Driver) Set(ctx context.Context, key, value string) error {
	query, vals, err := squirrel.Insert("entries").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return err
	}

	_, err = driver.db.ExecContext(ctx, query, vals...)
	return err
}

// Delete removes a key and its value
func (driver *Driver) Delete(ctx context.Context, key string) error {
	query, vals, err := squirrel.Delete("entries").Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return err
	}

	_, err = driver.db.ExecContext(ctx, query, vals...)
	return err
}

// Close closes the database connection
func (driver *Driver) Close() {
	if driver.db != nil {
		driver.db.Close()
		driver.db = nil
	}
}
