package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/hrygo/jobsense/internal/apperr"
)

// GenerationService is the text generation service interface.
type GenerationService interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

type generationService struct {
	endpoint string
	model    string
	client   *http.Client
}

// NewGenerationService creates a GenerationService against an Ollama-style
// generate endpoint: POST {endpoint} {model, prompt, stream:false} and the
// completion arrives in the "response" field.
func NewGenerationService(cfg *GenerationConfig) GenerationService {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &generationService{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		client:   &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (s *generationService) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: s.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, err, "failed to encode generate request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, err, "failed to build generate request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpstreamUnreachable, err, "generation request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpstreamUnreachable, err, "failed to read generation response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperr.New(apperr.KindUpstreamRejected, string(respBody))
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", apperr.Wrap(apperr.KindUpstreamRejected, err, "malformed generation response")
	}
	if out.Response == "" {
		return "No response generated.", nil
	}
	return out.Response, nil
}
