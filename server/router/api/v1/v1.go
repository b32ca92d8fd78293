package v1

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/jobsense/ai/metrics"
	"github.com/hrygo/jobsense/catalog"
	"github.com/hrygo/jobsense/internal/apperr"
	"github.com/hrygo/jobsense/internal/profile"
	"github.com/hrygo/jobsense/retrieval"
	"github.com/hrygo/jobsense/store"
)

// SearchEngine is the retrieval surface the handlers need. *retrieval.Engine
// satisfies it; tests substitute a stub.
type SearchEngine interface {
	Search(ctx context.Context, q retrieval.SearchQuery) ([]retrieval.Hit, error)
	MatchResume(ctx context.Context, filename string, text string, k int) ([]retrieval.Hit, error)
	Answer(ctx context.Context, question string, k int) (retrieval.Answer, error)
	IndexAll(ctx context.Context) (int, error)
}

type APIV1Service struct {
	Profile  *profile.Profile
	Store    *store.Store
	Catalog  *catalog.Catalog
	Engine   SearchEngine
	Exporter *metrics.PrometheusExporter
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, cat *catalog.Catalog, engine SearchEngine, exporter *metrics.PrometheusExporter) *APIV1Service {
	return &APIV1Service{
		Profile:  profile,
		Store:    store,
		Catalog:  cat,
		Engine:   engine,
		Exporter: exporter,
	}
}

// RegisterRoutes wires the service onto the echo instance. Paths match the
// public API contract, so clients of earlier releases keep working.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	e.GET("/", s.Home)
	e.POST("/insert", s.InsertJobs)
	e.POST("/search", s.SearchJobs)
	e.POST("/apply", s.ApplyJob)
	e.GET("/applied", s.ListAppliedJobs)
	e.DELETE("/applied/:job_id", s.DeleteAppliedJob)
	e.POST("/resume-match", s.ResumeMatch)
	e.POST("/rag", s.RagAnswer)
	if s.Exporter != nil {
		e.GET("/metrics", echo.WrapHandler(s.Exporter.Handler()))
	}
}

// Home reports liveness.
func (s *APIV1Service) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Job AI API running"})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusForKind maps an error kind onto its HTTP status.
func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUpstreamUnreachable, apperr.KindUpstreamRejected:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// errJSON renders the payload every endpoint uses for failures.
func errJSON(c echo.Context, err error) error {
	kind := apperr.KindOf(err)
	return c.JSON(statusForKind(kind), errorResponse{Error: err.Error(), Code: string(kind)})
}
