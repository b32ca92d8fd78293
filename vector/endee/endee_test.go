package endee

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/hrygo/jobsense/internal/apperr"
	"github.com/hrygo/jobsense/vector"
)

func newTestClient(url string) *Client {
	return NewClient(Config{BaseURL: url, Index: "jobs_index"})
}

func TestCreate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/index/create", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Create(context.Background(), 384, "cosine")
	require.NoError(t, err)
	assert.Equal(t, "jobs_index", got["index_name"])
	assert.Equal(t, float64(384), got["dim"])
	assert.Equal(t, "cosine", got["space_type"])
}

func TestInsertEncodesFilterAsString(t *testing.T) {
	var got []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/index/jobs_index/vector/insert", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	items := []vector.Item{{
		ID:     "1",
		Vector: []float32{0.1, 0.2},
		Meta:   map[string]string{"title": "Python Developer"},
		Filter: vector.FilterTags{Location: "Pune", Experience: "2-5"},
	}}
	require.NoError(t, newTestClient(srv.URL).Insert(context.Background(), items))

	require.Len(t, got, 1)
	filterStr, ok := got[0]["filter"].(string)
	require.True(t, ok, "filter must be a JSON-encoded string, not a nested object")

	var tags map[string]string
	require.NoError(t, json.Unmarshal([]byte(filterStr), &tags))
	assert.Equal(t, "Pune", tags["location"])
	assert.Equal(t, "2-5", tags["experience"])
}

func TestInsertErrorNamesBatchSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.Close() // force a transport failure

	items := make([]vector.Item, 3)
	err := newTestClient(srv.URL).Insert(context.Background(), items)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstreamUnreachable, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "3 vectors")
}

func TestSearchDecodesCandidates(t *testing.T) {
	// Entries may carry a trailing metadata element; it must be ignored.
	response, err := msgpack.Marshal([]any{
		[]any{0.91, 7},
		[]any{0.85, "3", map[string]any{"title": "ignored"}},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/index/jobs_index/search", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, float64(5), req["k"])
		_, hasFilter := req["filter"]
		assert.False(t, hasFilter, "unfiltered search must not send a filter")
		w.Write(response)
	}))
	defer srv.Close()

	candidates, err := newTestClient(srv.URL).Search(context.Background(), []float32{0.1}, 5, vector.Predicate{})
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.InDelta(t, 0.91, candidates[0].Score, 1e-9)
	assert.Equal(t, int64(7), candidates[0].ID)
	assert.InDelta(t, 0.85, candidates[1].Score, 1e-9)
	assert.Equal(t, int64(3), candidates[1].ID, "string ids must decode")
}

func TestSearchEncodesPredicate(t *testing.T) {
	response, err := msgpack.Marshal([]any{})
	require.NoError(t, err)

	var filterStr string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		filterStr, _ = req["filter"].(string)
		w.Write(response)
	}))
	defer srv.Close()

	pred := vector.Predicate{Location: "Pune", Experience: "2-5"}
	_, err = newTestClient(srv.URL).Search(context.Background(), []float32{0.1}, 50, pred)
	require.NoError(t, err)

	var clauses []map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(filterStr), &clauses))
	assert.Equal(t, []map[string]map[string]string{
		{"location": {"$eq": "Pune"}},
		{"experience": {"$eq": "2-5"}},
	}, clauses)
}

func TestSearchRejectsMalformedEntries(t *testing.T) {
	response, err := msgpack.Marshal([]any{
		[]any{0.9}, // missing id
	})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(response)
	}))
	defer srv.Close()

	_, err = newTestClient(srv.URL).Search(context.Background(), []float32{0.1}, 5, vector.Predicate{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstreamRejected, apperr.KindOf(err))
}

func TestSearchSurfacesUpstreamStatusVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Search(context.Background(), []float32{0.1}, 5, vector.Predicate{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstreamRejected, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "index not found")
}
