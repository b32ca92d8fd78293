package store

import (
	"context"
	"time"
)

// AppliedJob is a catalog job the user has marked as applied, together with
// the time the application was recorded. Re-applying to the same job replaces
// the earlier row.
type AppliedJob struct {
	JobID       int64     `json:"job_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Skills      string    `json:"skills"`
	Experience  string    `json:"experience"`
	Description string    `json:"description"`
	AppliedAt   time.Time `json:"applied_at"`
}

func (s *Store) UpsertAppliedJob(ctx context.Context, upsert *AppliedJob) (*AppliedJob, error) {
	return s.driver.UpsertAppliedJob(ctx, upsert)
}

func (s *Store) ListAppliedJobs(ctx context.Context) ([]*AppliedJob, error) {
	return s.driver.ListAppliedJobs(ctx)
}

func (s *Store) GetAppliedJob(ctx context.Context, jobID int64) (*AppliedJob, error) {
	return s.driver.GetAppliedJob(ctx, jobID)
}

func (s *Store) DeleteAppliedJob(ctx context.Context, jobID int64) error {
	return s.driver.DeleteAppliedJob(ctx, jobID)
}
