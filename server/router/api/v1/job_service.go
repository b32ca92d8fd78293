package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/jobsense/internal/apperr"
	"github.com/hrygo/jobsense/retrieval"
)

type searchRequest struct {
	Query      string `json:"query"`
	Location   string `json:"location"`
	Experience string `json:"experience"`
	K          int    `json:"k"`
}

type insertResponse struct {
	Inserted int `json:"inserted"`
}

// InsertJobs embeds the whole catalog and pushes it to the vector index.
func (s *APIV1Service) InsertJobs(c echo.Context) error {
	inserted, err := s.Engine.IndexAll(c.Request().Context())
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, insertResponse{Inserted: inserted})
}

// SearchJobs runs a semantic search over the catalog with optional location
// and experience filters.
func (s *APIV1Service) SearchJobs(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, apperr.Wrap(apperr.KindInvalidInput, err, "malformed search request"))
	}
	if req.K == 0 {
		req.K = 5
	}

	hits, err := s.Engine.Search(c.Request().Context(), retrieval.SearchQuery{
		Query:      req.Query,
		Location:   req.Location,
		Experience: req.Experience,
		K:          req.K,
	})
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(http.StatusOK, hits)
}
