// Package endee is a minimal REST client to the Endee vector index service.
//
// Endee has two wire quirks the rest of the system must never see: the
// filter payloads are JSON objects encoded as strings inside the outer JSON,
// and search responses are msgpack-packed positional tuples. Both are
// handled here and only here.
package endee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/hrygo/jobsense/internal/apperr"
	"github.com/hrygo/jobsense/vector"
)

// Client implements vector.Index against an Endee instance.
type Client struct {
	baseURL string
	index   string
	client  *http.Client
}

type Config struct {
	BaseURL string
	Index   string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		index:   cfg.Index,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Create(ctx context.Context, dim int, spaceType string) error {
	body := map[string]any{
		"index_name": c.index,
		"dim":        dim,
		"space_type": spaceType,
	}
	_, err := c.postJSON(ctx, c.baseURL+"/api/v1/index/create", body)
	if err != nil {
		return err
	}
	return nil
}

func (c *Client) Insert(ctx context.Context, items []vector.Item) error {
	payload := make([]map[string]any, len(items))
	for i, item := range items {
		// Endee expects the filter tags as a JSON STRING, not a nested object.
		filter, err := json.Marshal(item.Filter)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, err, "failed to encode filter tags")
		}
		payload[i] = map[string]any{
			"id":     item.ID,
			"vector": item.Vector,
			"meta":   item.Meta,
			"filter": string(filter),
		}
	}

	if _, err := c.postJSON(ctx, fmt.Sprintf("%s/api/v1/index/%s/vector/insert", c.baseURL, c.index), payload); err != nil {
		if appErr, ok := err.(*apperr.Error); ok && appErr.Kind == apperr.KindUpstreamUnreachable {
			return apperr.Wrap(apperr.KindUpstreamUnreachable, appErr.Err,
				fmt.Sprintf("index insert of %d vectors failed", len(items)))
		}
		return err
	}
	return nil
}

func (c *Client) Search(ctx context.Context, vec []float32, k int, pred vector.Predicate) ([]vector.Candidate, error) {
	body := map[string]any{
		"vector": vec,
		"k":      k,
	}
	if !pred.IsEmpty() {
		filter, err := encodePredicate(pred)
		if err != nil {
			return nil, err
		}
		body["filter"] = filter
	}

	raw, err := c.postJSON(ctx, fmt.Sprintf("%s/api/v1/index/%s/search", c.baseURL, c.index), body)
	if err != nil {
		return nil, err
	}
	return decodeCandidates(raw)
}

// encodePredicate serializes the predicate as the JSON-string-of-an-array
// convention Endee expects: [{"field": {"$eq": value}}, ...], AND-combined.
func encodePredicate(pred vector.Predicate) (string, error) {
	clauses := make([]map[string]map[string]string, 0, 2)
	if pred.Location != "" {
		clauses = append(clauses, map[string]map[string]string{"location": {"$eq": pred.Location}})
	}
	if pred.Experience != "" {
		clauses = append(clauses, map[string]map[string]string{"experience": {"$eq": pred.Experience}})
	}
	encoded, err := json.Marshal(clauses)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, err, "failed to encode filter predicate")
	}
	return string(encoded), nil
}

// decodeCandidates unpacks the msgpack search response. Each entry is a
// positional tuple whose first two elements are always (score, id); a
// trailing metadata element may or may not be present and is ignored in
// favor of the catalog. Entries that do not fit the schema are rejected
// rather than silently skipped.
func decodeCandidates(raw []byte) ([]vector.Candidate, error) {
	var entries [][]any
	if err := msgpack.Unmarshal(raw, &entries); err != nil {
		return nil, apperr.Wrap(apperr.KindUpstreamRejected, err, "malformed index search response")
	}

	candidates := make([]vector.Candidate, 0, len(entries))
	for i, entry := range entries {
		if len(entry) < 2 {
			return nil, apperr.Newf(apperr.KindUpstreamRejected,
				"malformed index search response: entry %d has %d elements, want at least 2", i, len(entry))
		}
		score, err := toFloat64(entry[0])
		if err != nil {
			return nil, apperr.Newf(apperr.KindUpstreamRejected,
				"malformed index search response: entry %d score: %v", i, err)
		}
		id, err := toInt64(entry[1])
		if err != nil {
			return nil, apperr.Newf(apperr.KindUpstreamRejected,
				"malformed index search response: entry %d id: %v", i, err)
		}
		candidates = append(candidates, vector.Candidate{Score: score, ID: id})
	}
	return candidates, nil
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case int8, int16, int32, int, uint8, uint16, uint32, uint:
		return toFloat64(normalizeInt(n))
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case int8, int16, int32, int, uint8, uint16, uint32, uint:
		return toInt64(normalizeInt(n))
	case string:
		var id int64
		if _, err := fmt.Sscanf(n, "%d", &id); err != nil {
			return 0, fmt.Errorf("non-numeric id %q", n)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func normalizeInt(v any) any {
	switch n := v.(type) {
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint:
		return uint64(n)
	default:
		return n
	}
}

// postJSON posts body as JSON and returns the raw response bytes. Transport
// failures map to UpstreamUnreachable; non-2xx statuses map to
// UpstreamRejected with the response body passed through verbatim.
func (c *Client) postJSON(ctx context.Context, url string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstreamUnreachable, err, "index request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstreamUnreachable, err, "failed to read index response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.New(apperr.KindUpstreamRejected, string(respBody))
	}
	return respBody, nil
}
