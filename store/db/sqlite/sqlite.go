package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/jobsense/internal/profile"
	"github.com/hrygo/jobsense/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the applied-jobs ledger database under the configured data
// directory, creating the file on first use.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	dsn := profile.LedgerDSN()
	if dsn == "" {
		return nil, errors.New("dsn required")
	}

	// Connect to the database with some sane settings:
	// - No shared-cache: it's obsolete; WAL journal mode is a better solution.
	// - No foreign key constraints: the ledger is a single table.
	// - Journal mode set to WAL: prevents locking issues between the request
	//   handlers and periodic reads.
	//
	// Note: when using the `modernc.org/sqlite` driver, each pragma must be
	// prefixed with `_pragma=`.
	sqliteDB, err := sql.Open("sqlite", dsn+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", dsn)
	}

	// SQLite allows a single writer at a time; funnel everything through one
	// connection so concurrent upserts queue instead of failing with
	// SQLITE_BUSY.
	sqliteDB.SetMaxOpenConns(1)

	driver := DB{db: sqliteDB, profile: profile}
	return &driver, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS applied_jobs (
	job_id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	company TEXT NOT NULL,
	location TEXT NOT NULL,
	skills TEXT NOT NULL,
	experience TEXT NOT NULL,
	description TEXT NOT NULL,
	applied_at INTEGER NOT NULL
);
`

// Migrate creates the ledger schema if it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to migrate applied_jobs schema")
	}
	return nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}
