package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/jobsense/internal/apperr"
	"github.com/hrygo/jobsense/retrieval"
)

type ragRequest struct {
	Question string `json:"question"`
	K        int    `json:"k"`
}

// RagAnswer retrieves the jobs most relevant to the question and asks the
// generation model to answer grounded in them. When generation fails the
// retrieved context is still returned alongside the error.
func (s *APIV1Service) RagAnswer(c echo.Context) error {
	var req ragRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, apperr.Wrap(apperr.KindInvalidInput, err, "malformed rag request"))
	}
	if req.K == 0 {
		req.K = 5
	}

	answer, err := s.Engine.Answer(c.Request().Context(), req.Question, req.K)
	if answer.Context == nil {
		answer.Context = []retrieval.Hit{}
	}
	if err != nil {
		kind := apperr.KindOf(err)
		return c.JSON(statusForKind(kind), struct {
			Error       string          `json:"error"`
			Code        string          `json:"code"`
			ContextJobs []retrieval.Hit `json:"context_jobs"`
		}{Error: err.Error(), Code: string(kind), ContextJobs: answer.Context})
	}
	return c.JSON(http.StatusOK, answer)
}
