package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/jobsense/internal/apperr"
	"github.com/hrygo/jobsense/store"
)

// UpsertAppliedJob inserts an applied-job row, replacing any earlier row for
// the same job id so re-applying refreshes the timestamp.
func (d *DB) UpsertAppliedJob(ctx context.Context, upsert *store.AppliedJob) (*store.AppliedJob, error) {
	stmt := `
		INSERT INTO applied_jobs (job_id, title, company, location, skills, experience, description, applied_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (job_id) DO UPDATE SET
			title = excluded.title,
			company = excluded.company,
			location = excluded.location,
			skills = excluded.skills,
			experience = excluded.experience,
			description = excluded.description,
			applied_at = excluded.applied_at
	`
	appliedAt := upsert.AppliedAt
	if appliedAt.IsZero() {
		appliedAt = time.Now()
	}
	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.JobID,
		upsert.Title,
		upsert.Company,
		upsert.Location,
		upsert.Skills,
		upsert.Experience,
		upsert.Description,
		appliedAt.UnixNano(),
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert applied job")
	}
	applied := *upsert
	applied.AppliedAt = appliedAt
	return &applied, nil
}

// ListAppliedJobs lists all applied jobs, most recently applied first.
func (d *DB) ListAppliedJobs(ctx context.Context) ([]*store.AppliedJob, error) {
	query := `SELECT job_id, title, company, location, skills, experience, description, applied_at
		FROM applied_jobs
		ORDER BY applied_at DESC`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list applied jobs")
	}
	defer rows.Close()

	var jobs []*store.AppliedJob
	for rows.Next() {
		job, err := scanAppliedJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate applied jobs")
	}
	return jobs, nil
}

// GetAppliedJob returns the applied job for the given id, or a not-found
// error when the ledger has no such row.
func (d *DB) GetAppliedJob(ctx context.Context, jobID int64) (*store.AppliedJob, error) {
	query := `SELECT job_id, title, company, location, skills, experience, description, applied_at
		FROM applied_jobs
		WHERE job_id = ?`

	job, err := scanAppliedJob(d.db.QueryRowContext(ctx, query, jobID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Newf(apperr.KindNotFound, "applied job %d not found", jobID)
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// DeleteAppliedJob removes the row for the given job id. Deleting a job that
// was never applied to is not an error.
func (d *DB) DeleteAppliedJob(ctx context.Context, jobID int64) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM applied_jobs WHERE job_id = ?`, jobID); err != nil {
		return errors.Wrap(err, "failed to delete applied job")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppliedJob(row rowScanner) (*store.AppliedJob, error) {
	var job store.AppliedJob
	var appliedAtNanos int64
	if err := row.Scan(
		&job.JobID,
		&job.Title,
		&job.Company,
		&job.Location,
		&job.Skills,
		&job.Experience,
		&job.Description,
		&appliedAtNanos,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to scan applied job")
	}
	job.AppliedAt = time.Unix(0, appliedAtNanos)
	return &job, nil
}
