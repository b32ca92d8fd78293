package v1

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/jobsense/internal/apperr"
	"github.com/hrygo/jobsense/store"
)

type applyRequest struct {
	JobID int64 `json:"job_id"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ApplyJob records an application for a catalog job. The snapshot of the job
// is copied into the ledger so later catalog edits do not retroactively
// change history.
func (s *APIV1Service) ApplyJob(c echo.Context) error {
	var req applyRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, apperr.Wrap(apperr.KindInvalidInput, err, "malformed apply request"))
	}

	job, ok := s.Catalog.Get(req.JobID)
	if !ok {
		return errJSON(c, apperr.Newf(apperr.KindNotFound, "job %d not found", req.JobID))
	}

	applied := &store.AppliedJob{
		JobID:       job.JobID,
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Skills:      job.Skills,
		Experience:  job.Experience,
		Description: job.Description,
		AppliedAt:   time.Now(),
	}
	if _, err := s.Store.UpsertAppliedJob(c.Request().Context(), applied); err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("Applied to job_id %d", req.JobID)})
}

// ListAppliedJobs returns the ledger, most recently applied first.
func (s *APIV1Service) ListAppliedJobs(c echo.Context) error {
	jobs, err := s.Store.ListAppliedJobs(c.Request().Context())
	if err != nil {
		return errJSON(c, err)
	}
	if jobs == nil {
		jobs = []*store.AppliedJob{}
	}
	return c.JSON(http.StatusOK, jobs)
}

// DeleteAppliedJob removes a job from the ledger. Unknown ids succeed so the
// operation can be retried safely.
func (s *APIV1Service) DeleteAppliedJob(c echo.Context) error {
	jobID, err := strconv.ParseInt(c.Param("job_id"), 10, 64)
	if err != nil {
		return errJSON(c, apperr.Wrap(apperr.KindInvalidInput, err, "job_id must be an integer"))
	}
	if err := s.Store.DeleteAppliedJob(c.Request().Context(), jobID); err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("Removed job_id %d from applied list", jobID)})
}
