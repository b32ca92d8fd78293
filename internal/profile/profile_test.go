package profile

import (
	"testing"
)

func TestProfileDefaults(t *testing.T) {
	clearEnvVars(t)

	profile := &Profile{}
	profile.FromEnv()

	tests := []struct {
		name     string
		expected string
		actual   string
	}{
		{"CatalogPath default", "data/jobs.csv", profile.CatalogPath},
		{"IndexURL default", "http://localhost:8080", profile.IndexURL},
		{"IndexName default", "jobs_index", profile.IndexName},
		{"IndexSpaceType default", "cosine", profile.IndexSpaceType},
		{"EmbeddingModel default", "all-MiniLM-L6-v2", profile.EmbeddingModel},
		{"GenerationModel default", "llama3.2", profile.GenerationModel},
		{"GenerationEndpoint default", "http://localhost:11434/api/generate", profile.GenerationEndpoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.actual != tt.expected {
				t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, tt.actual)
			}
		})
	}

	if profile.IndexDim != 384 {
		t.Errorf("IndexDim default: expected 384, got %d", profile.IndexDim)
	}
	if profile.IndexTimeout != 15 || profile.EmbeddingTimeout != 30 || profile.GenerationTimeout != 60 {
		t.Errorf("timeout defaults: got index=%d embed=%d generate=%d",
			profile.IndexTimeout, profile.EmbeddingTimeout, profile.GenerationTimeout)
	}
}

func TestProfileFromEnv(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("JOBSENSE_INDEX_URL", "http://endee:9000")
	t.Setenv("JOBSENSE_INDEX_DIM", "768")
	t.Setenv("JOBSENSE_EMBEDDING_MODEL", "nomic-embed-text")

	profile := &Profile{}
	profile.FromEnv()

	if profile.IndexURL != "http://endee:9000" {
		t.Errorf("IndexURL: expected http://endee:9000, got %q", profile.IndexURL)
	}
	if profile.IndexDim != 768 {
		t.Errorf("IndexDim: expected 768, got %d", profile.IndexDim)
	}
	if profile.EmbeddingModel != "nomic-embed-text" {
		t.Errorf("EmbeddingModel: expected nomic-embed-text, got %q", profile.EmbeddingModel)
	}
}

func TestValidateRejectsBadDim(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("JOBSENSE_INDEX_DIM", "-1")

	profile := &Profile{Mode: "dev", Data: t.TempDir()}
	profile.FromEnv()

	if err := profile.Validate(); err == nil {
		t.Error("expected validation error for negative dim")
	}
}

func TestValidateNormalizesMode(t *testing.T) {
	clearEnvVars(t)

	profile := &Profile{Mode: "bogus", Data: t.TempDir()}
	profile.FromEnv()

	if err := profile.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	if profile.Mode != "demo" {
		t.Errorf("expected unknown mode to fall back to demo, got %q", profile.Mode)
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"JOBSENSE_CATALOG_PATH",
		"JOBSENSE_INDEX_URL",
		"JOBSENSE_INDEX_NAME",
		"JOBSENSE_INDEX_DIM",
		"JOBSENSE_INDEX_SPACE_TYPE",
		"JOBSENSE_INDEX_TIMEOUT_SECONDS",
		"JOBSENSE_EMBEDDING_MODEL",
		"JOBSENSE_EMBEDDING_API_KEY",
		"JOBSENSE_EMBEDDING_BASE_URL",
		"JOBSENSE_EMBEDDING_TIMEOUT_SECONDS",
		"JOBSENSE_GENERATION_MODEL",
		"JOBSENSE_GENERATION_ENDPOINT",
		"JOBSENSE_GENERATION_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}
}
