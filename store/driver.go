package store

import "context"

// Driver is an interface for the ledger database driver.
type Driver interface {
	// Migrate creates the schema if it does not exist yet.
	Migrate(ctx context.Context) error

	// AppliedJob model related methods.
	UpsertAppliedJob(ctx context.Context, upsert *AppliedJob) (*AppliedJob, error)
	ListAppliedJobs(ctx context.Context) ([]*AppliedJob, error)
	GetAppliedJob(ctx context.Context, jobID int64) (*AppliedJob, error)
	DeleteAppliedJob(ctx context.Context, jobID int64) error

	Close() error
}
