// Package vector defines the narrow interface to the external vector index
// service. The core pipeline only sees candidates and predicates; every
// index-specific wire convention stays inside the adapter implementing this
// interface.
package vector

import "context"

// Item is one vector to insert, with the catalog metadata and the
// equality-filterable tags attached at index time.
type Item struct {
	ID     string
	Vector []float32
	Meta   map[string]string
	Filter FilterTags
}

// FilterTags are the normalized fields the index can equality-filter on.
type FilterTags struct {
	Location   string `json:"location"`
	Experience string `json:"experience"`
}

// Predicate is a conjunction of equality constraints. An empty field imposes
// no constraint; a fully empty predicate means unfiltered search.
type Predicate struct {
	Location   string
	Experience string
}

// IsEmpty reports whether the predicate imposes no constraints.
func (p Predicate) IsEmpty() bool {
	return p.Location == "" && p.Experience == ""
}

// Candidate is one (score, id) pair returned by the index, ordered by
// descending relevance. Index ids map to catalog job ids.
type Candidate struct {
	Score float64
	ID    int64
}

// Index is the vector index service.
type Index interface {
	// Create creates the named index. The service may reject creation when
	// the index already exists; callers treat creation as best-effort and
	// tolerate the error (the index keeps serving either way).
	Create(ctx context.Context, dim int, spaceType string) error

	// Insert submits all items in a single batch. Re-insertion with an
	// existing id overwrites.
	Insert(ctx context.Context, items []Item) error

	// Search returns up to k candidates nearest to vec, filtered by pred
	// when non-empty. The filter is applied by the index after candidate
	// generation, so callers over-fetch when filtering.
	Search(ctx context.Context, vec []float32, k int, pred Predicate) ([]Candidate, error)
}
