package ai

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/jobsense/internal/profile"
)

// Config represents AI provider configuration.
type Config struct {
	Embedding  EmbeddingConfig
	Generation GenerationConfig
}

// EmbeddingConfig represents vector embedding configuration.
type EmbeddingConfig struct {
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
	Timeout    time.Duration
}

// GenerationConfig represents text generation configuration.
type GenerationConfig struct {
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// NewConfigFromProfile creates AI config from profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Model:      p.EmbeddingModel,
			APIKey:     p.EmbeddingAPIKey,
			BaseURL:    p.EmbeddingBaseURL,
			Dimensions: p.IndexDim,
			Timeout:    time.Duration(p.EmbeddingTimeout) * time.Second,
		},
		Generation: GenerationConfig{
			Model:    p.GenerationModel,
			Endpoint: p.GenerationEndpoint,
			Timeout:  time.Duration(p.GenerationTimeout) * time.Second,
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Embedding.Model == "" {
		return errors.New("embedding model is required")
	}
	if c.Embedding.Dimensions <= 0 {
		return errors.New("embedding dimensions must be positive")
	}
	if c.Generation.Model == "" {
		return errors.New("generation model is required")
	}
	if c.Generation.Endpoint == "" {
		return errors.New("generation endpoint is required")
	}
	return nil
}
