// Package retrieval implements the retrieval pipeline shared by search,
// resume matching, and retrieval-augmented answering: embed the query, ask
// the index for candidates, join them against the catalog, and truncate.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/hrygo/jobsense/ai"
	"github.com/hrygo/jobsense/ai/metrics"
	"github.com/hrygo/jobsense/catalog"
	"github.com/hrygo/jobsense/internal/apperr"
	"github.com/hrygo/jobsense/vector"
)

const (
	// minFilteredFetch is how many candidates are requested when a filter is
	// present. The index filters after approximate nearest-neighbour
	// retrieval, so fetching only k risks returning fewer than k matches
	// even when enough matching jobs exist.
	minFilteredFetch = 50

	// minRAGFetch is the enlarged minimum fetch for answer context.
	minRAGFetch = 10

	// minResumeChars is the minimum extracted resume length in characters,
	// not bytes; anything shorter is treated as an unreadable document.
	minResumeChars = 30

	// placeholderQuery is the interactive-docs default value; treated the
	// same as an empty query.
	placeholderQuery = "string"

	embedBatchSize   = 32
	embedConcurrency = 4
)

// Hit is an index match joined with its full catalog record.
type Hit struct {
	catalog.Job
	Score float64 `json:"score"`
}

// SearchQuery is a text search with optional equality filters.
type SearchQuery struct {
	Query      string
	Location   string
	Experience string
	K          int
}

// Answer is a generated answer together with the retrieved jobs it was
// grounded on. Context is populated even when generation fails so callers
// can see what would have been used.
type Answer struct {
	Answer  string `json:"answer"`
	Context []Hit  `json:"context_jobs"`
}

// Engine orchestrates the retrieval pipeline. It is constructed once at
// process start and holds no per-request state.
type Engine struct {
	catalog   *catalog.Catalog
	embedder  ai.EmbeddingService
	index     vector.Index
	generator ai.GenerationService
	metrics   *metrics.PrometheusExporter
}

func NewEngine(cat *catalog.Catalog, embedder ai.EmbeddingService, index vector.Index, generator ai.GenerationService, exporter *metrics.PrometheusExporter) *Engine {
	if exporter != nil {
		exporter.SetCatalogSize(cat.Size())
	}
	return &Engine{
		catalog:   cat,
		embedder:  embedder,
		index:     index,
		generator: generator,
		metrics:   exporter,
	}
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// isDegenerate reports whether the query text should short-circuit to an
// empty result without touching any upstream.
func isDegenerate(query string) bool {
	trimmed := strings.TrimSpace(query)
	return trimmed == "" || strings.EqualFold(trimmed, placeholderQuery)
}

// isWildcard reports whether a filter value imposes no constraint.
func isWildcard(value string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	return trimmed == "" || trimmed == placeholderQuery || trimmed == "all"
}

// predicateFor builds the normalized filter predicate for a query. The
// normalization here must match the one applied at catalog load and index
// time, or equality filters silently stop matching.
func predicateFor(location, experience string) vector.Predicate {
	var pred vector.Predicate
	if !isWildcard(location) {
		pred.Location = catalog.NormalizeLocation(location)
	}
	if !isWildcard(experience) {
		pred.Experience = catalog.NormalizeExperience(experience)
	}
	return pred
}

// Search runs the retrieval pipeline for a text query.
func (e *Engine) Search(ctx context.Context, q SearchQuery) ([]Hit, error) {
	if q.K < 1 {
		return nil, apperr.Newf(apperr.KindInvalidInput, "k must be positive, got %d", q.K)
	}
	if isDegenerate(q.Query) {
		if e.metrics != nil {
			e.metrics.RecordDegenerateQuery()
		}
		return []Hit{}, nil
	}

	started := time.Now()
	hits, err := e.retrieve(ctx, strings.TrimSpace(q.Query), q.K, predicateFor(q.Location, q.Experience))
	e.recordSearch("search", started, err)
	return hits, err
}

// MatchResume runs the pipeline using the text of an uploaded PDF resume as
// the query. No filter predicate is applied: broader recall is wanted here.
func (e *Engine) MatchResume(ctx context.Context, filename string, text string, k int) ([]Hit, error) {
	if k < 1 {
		return nil, apperr.Newf(apperr.KindInvalidInput, "k must be positive, got %d", k)
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, apperr.New(apperr.KindInvalidInput, "only PDF resumes are supported")
	}
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minResumeChars {
		return nil, apperr.New(apperr.KindInvalidInput, "resume text is too short / unreadable PDF")
	}

	started := time.Now()
	hits, err := e.retrieve(ctx, text, k, vector.Predicate{})
	e.recordSearch("resume", started, err)
	return hits, err
}

// Answer retrieves grounding context for the question and asks the
// generation provider for an answer constrained to that context.
func (e *Engine) Answer(ctx context.Context, question string, k int) (Answer, error) {
	if k < 1 {
		return Answer{}, apperr.Newf(apperr.KindInvalidInput, "k must be positive, got %d", k)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		if e.metrics != nil {
			e.metrics.RecordDegenerateQuery()
		}
		return Answer{Answer: "Please enter a question.", Context: []Hit{}}, nil
	}

	started := time.Now()
	hits, err := e.retrieveWithFetch(ctx, question, k, max(k, minRAGFetch), vector.Predicate{})
	if err != nil {
		e.recordSearch("rag", started, err)
		return Answer{}, err
	}

	if len(hits) == 0 {
		e.recordSearch("rag", started, nil)
		return Answer{Answer: "No jobs found for your query.", Context: []Hit{}}, nil
	}

	prompt := buildPrompt(question, hits)

	genStarted := time.Now()
	answer, err := e.generator.Generate(ctx, prompt)
	if e.metrics != nil {
		e.metrics.RecordUpstream("generation", time.Since(genStarted), err)
	}
	e.recordSearch("rag", started, err)
	if err != nil {
		// The retrieved context survives a failed generation call.
		return Answer{Context: hits}, err
	}

	return Answer{Answer: answer, Context: hits}, nil
}

// IndexAll embeds every catalog record and submits the whole batch to the
// index in one insert. Re-running with unchanged data overwrites in place.
func (e *Engine) IndexAll(ctx context.Context) (int, error) {
	jobs := e.catalog.Jobs()
	if len(jobs) == 0 {
		return 0, nil
	}

	vectors, err := e.embedJobs(ctx, jobs)
	if err != nil {
		return 0, err
	}

	items := make([]vector.Item, len(jobs))
	for i, job := range jobs {
		items[i] = vector.Item{
			ID:     fmt.Sprintf("%d", job.JobID),
			Vector: vectors[i],
			Meta: map[string]string{
				"title":       job.Title,
				"company":     job.Company,
				"location":    job.Location,
				"skills":      job.Skills,
				"experience":  job.Experience,
				"description": job.Description,
			},
			// Catalog fields are already normalized at load; these tags must
			// match the query-time predicate normalization exactly.
			Filter: vector.FilterTags{
				Location:   job.Location,
				Experience: job.Experience,
			},
		}
	}

	started := time.Now()
	err = e.index.Insert(ctx, items)
	if e.metrics != nil {
		e.metrics.RecordUpstream("index", time.Since(started), err)
	}
	if err != nil {
		return 0, err
	}

	slog.Info("indexed catalog", "vectors", len(items))
	return len(items), nil
}

// EnsureIndex creates the index with the configured dimension. The service
// may reject creation when the index already exists; startup treats the
// result as best-effort and only logs it.
func (e *Engine) EnsureIndex(ctx context.Context, dim int, spaceType string) error {
	return e.index.Create(ctx, dim, spaceType)
}

func (e *Engine) retrieve(ctx context.Context, text string, k int, pred vector.Predicate) ([]Hit, error) {
	fetch := k
	if !pred.IsEmpty() {
		fetch = max(k, minFilteredFetch)
	}
	return e.retrieveWithFetch(ctx, text, k, fetch, pred)
}

func (e *Engine) retrieveWithFetch(ctx context.Context, text string, k, fetch int, pred vector.Predicate) ([]Hit, error) {
	embedStarted := time.Now()
	vec, err := e.embedder.Embed(ctx, text)
	if e.metrics != nil {
		e.metrics.RecordUpstream("embedding", time.Since(embedStarted), err)
	}
	if err != nil {
		return nil, err
	}

	searchStarted := time.Now()
	candidates, err := e.index.Search(ctx, vec, fetch, pred)
	if e.metrics != nil {
		e.metrics.RecordUpstream("index", time.Since(searchStarted), err)
	}
	if err != nil {
		return nil, err
	}

	// The index already orders candidates by descending relevance; join
	// against the catalog without re-sorting and drop ids the catalog does
	// not know (the catalog is the source of truth for existence).
	hits := make([]Hit, 0, min(len(candidates), k))
	for _, candidate := range candidates {
		job, ok := e.catalog.Get(candidate.ID)
		if !ok {
			continue
		}
		hits = append(hits, Hit{Job: job, Score: candidate.Score})
		if len(hits) == k {
			break
		}
	}
	return hits, nil
}

// embedJobs computes embeddings for all jobs, batched and bounded.
func (e *Engine) embedJobs(ctx context.Context, jobs []catalog.Job) ([][]float32, error) {
	vectors := make([][]float32, len(jobs))

	group, ctx := newErrGroup(ctx)
	for start := 0; start < len(jobs); start += embedBatchSize {
		start, end := start, min(start+embedBatchSize, len(jobs))
		group.Go(func() error {
			texts := make([]string, end-start)
			for i, job := range jobs[start:end] {
				texts[i] = catalog.EmbeddingText(job)
			}
			batchStarted := time.Now()
			batch, err := e.embedder.EmbedBatch(ctx, texts)
			if e.metrics != nil {
				e.metrics.RecordUpstream("embedding", time.Since(batchStarted), err)
			}
			if err != nil {
				return err
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

func newErrGroup(ctx context.Context) (*errgroup.Group, context.Context) {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(embedConcurrency)
	return group, ctx
}

func (e *Engine) recordSearch(operation string, started time.Time, err error) {
	if e.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	e.metrics.RecordSearch(operation, status, time.Since(started))
}
