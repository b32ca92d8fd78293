package profile

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start main server.
// All values are static process configuration; nothing here is runtime-mutable.
type Profile struct {
	// Server
	Mode string // "prod" or "dev" or "demo"
	Addr string
	Port int
	Data string // data directory (ledger database lives here)

	// Catalog
	CatalogPath string // CSV file with the job records

	// Vector index (Endee)
	IndexURL       string
	IndexName      string
	IndexDim       int
	IndexSpaceType string
	IndexTimeout   int // seconds

	// Embedding provider (any OpenAI-compatible endpoint)
	EmbeddingModel   string
	EmbeddingAPIKey  string
	EmbeddingBaseURL string
	EmbeddingTimeout int // seconds

	// Generation provider (Ollama-style generate endpoint)
	GenerationModel    string
	GenerationEndpoint string
	GenerationTimeout  int // seconds

	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
// Flag/viper values already set on the Profile take precedence over defaults
// but are overridden by explicit JOBSENSE_* variables.
func (p *Profile) FromEnv() {
	p.CatalogPath = getEnvOrDefault("JOBSENSE_CATALOG_PATH", p.CatalogPath)
	if p.CatalogPath == "" {
		p.CatalogPath = "data/jobs.csv"
	}

	p.IndexURL = getEnvOrDefault("JOBSENSE_INDEX_URL", "http://localhost:8080")
	p.IndexName = getEnvOrDefault("JOBSENSE_INDEX_NAME", "jobs_index")
	p.IndexDim = getEnvOrDefaultInt("JOBSENSE_INDEX_DIM", 384)
	p.IndexSpaceType = getEnvOrDefault("JOBSENSE_INDEX_SPACE_TYPE", "cosine")
	p.IndexTimeout = getEnvOrDefaultInt("JOBSENSE_INDEX_TIMEOUT_SECONDS", 15)

	p.EmbeddingModel = getEnvOrDefault("JOBSENSE_EMBEDDING_MODEL", "all-MiniLM-L6-v2")
	p.EmbeddingAPIKey = getEnvOrDefault("JOBSENSE_EMBEDDING_API_KEY", "")
	p.EmbeddingBaseURL = getEnvOrDefault("JOBSENSE_EMBEDDING_BASE_URL", "http://localhost:11434/v1")
	p.EmbeddingTimeout = getEnvOrDefaultInt("JOBSENSE_EMBEDDING_TIMEOUT_SECONDS", 30)

	p.GenerationModel = getEnvOrDefault("JOBSENSE_GENERATION_MODEL", "llama3.2")
	p.GenerationEndpoint = getEnvOrDefault("JOBSENSE_GENERATION_ENDPOINT", "http://localhost:11434/api/generate")
	p.GenerationTimeout = getEnvOrDefaultInt("JOBSENSE_GENERATION_TIMEOUT_SECONDS", 60)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Data == "" {
		p.Data = "."
	}
	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.CatalogPath == "" {
		return errors.New("catalog path is required")
	}
	if p.IndexURL == "" {
		return errors.New("index url is required")
	}
	if p.IndexName == "" {
		return errors.New("index name is required")
	}
	if p.IndexDim <= 0 {
		return errors.Errorf("index dim must be positive, got %d", p.IndexDim)
	}

	return nil
}

// LedgerDSN returns the sqlite DSN for the applied-jobs ledger database.
func (p *Profile) LedgerDSN() string {
	return filepath.Join(p.Data, "applied_jobs.db")
}
