package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/jobsense/internal/apperr"
	"github.com/hrygo/jobsense/internal/profile"
	"github.com/hrygo/jobsense/store"
)

func newTestDriver(t *testing.T) store.Driver {
	t.Helper()
	driver, err := NewDB(&profile.Profile{Data: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })
	require.NoError(t, driver.Migrate(context.Background()))
	return driver
}

func appliedJob(id int64, title string, at time.Time) *store.AppliedJob {
	return &store.AppliedJob{
		JobID:       id,
		Title:       title,
		Company:     "TCS",
		Location:    "Pune",
		Skills:      "Python, Django",
		Experience:  "2-5",
		Description: "Build backend APIs.",
		AppliedAt:   at,
	}
}

func TestUpsertAndGetAppliedJob(t *testing.T) {
	driver := newTestDriver(t)
	ctx := context.Background()

	at := time.Now()
	created, err := driver.UpsertAppliedJob(ctx, appliedJob(1, "Python Developer", at))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.JobID)

	got, err := driver.GetAppliedJob(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Python Developer", got.Title)
	assert.Equal(t, "Pune", got.Location)
	assert.True(t, got.AppliedAt.Equal(at))
}

func TestUpsertReplacesExistingRow(t *testing.T) {
	driver := newTestDriver(t)
	ctx := context.Background()

	first := time.Now()
	_, err := driver.UpsertAppliedJob(ctx, appliedJob(1, "Python Developer", first))
	require.NoError(t, err)

	second := first.Add(time.Hour)
	_, err = driver.UpsertAppliedJob(ctx, appliedJob(1, "Python Developer", second))
	require.NoError(t, err)

	jobs, err := driver.ListAppliedJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1, "re-applying must not duplicate the row")
	assert.True(t, jobs[0].AppliedAt.Equal(second))
}

func TestListAppliedJobsMostRecentFirst(t *testing.T) {
	driver := newTestDriver(t)
	ctx := context.Background()

	base := time.Now()
	_, err := driver.UpsertAppliedJob(ctx, appliedJob(1, "Python Developer", base))
	require.NoError(t, err)
	_, err = driver.UpsertAppliedJob(ctx, appliedJob(3, "DevOps Engineer", base.Add(2*time.Second)))
	require.NoError(t, err)
	_, err = driver.UpsertAppliedJob(ctx, appliedJob(2, "Data Analyst", base.Add(time.Second)))
	require.NoError(t, err)

	jobs, err := driver.ListAppliedJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, int64(3), jobs[0].JobID)
	assert.Equal(t, int64(2), jobs[1].JobID)
	assert.Equal(t, int64(1), jobs[2].JobID)
}

func TestGetAppliedJobNotFound(t *testing.T) {
	driver := newTestDriver(t)

	_, err := driver.GetAppliedJob(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteAppliedJob(t *testing.T) {
	driver := newTestDriver(t)
	ctx := context.Background()

	_, err := driver.UpsertAppliedJob(ctx, appliedJob(1, "Python Developer", time.Now()))
	require.NoError(t, err)

	require.NoError(t, driver.DeleteAppliedJob(ctx, 1))

	jobs, err := driver.ListAppliedJobs(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	// Deleting an absent row is idempotent.
	require.NoError(t, driver.DeleteAppliedJob(ctx, 1))
}
