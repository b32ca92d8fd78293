package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/jobsense/ai"
	"github.com/hrygo/jobsense/ai/metrics"
	"github.com/hrygo/jobsense/catalog"
	"github.com/hrygo/jobsense/internal/profile"
	"github.com/hrygo/jobsense/internal/version"
	"github.com/hrygo/jobsense/retrieval"
	"github.com/hrygo/jobsense/server"
	"github.com/hrygo/jobsense/store"
	"github.com/hrygo/jobsense/store/db/sqlite"
	"github.com/hrygo/jobsense/vector/endee"
)

var (
	rootCmd = &cobra.Command{
		Use:     "jobsense",
		Short:   `A semantic job search service. Index a job catalog into a vector store and search it by meaning, resume, or question.`,
		Version: version.Full("prod"),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Only load .env for direct binary execution (not when running as systemd service).
			if !isRunningAsSystemdService() {
				_ = godotenv.Load()
			}
			return nil
		},
		Run: func(_ *cobra.Command, _ []string) {
			instanceProfile := &profile.Profile{
				Mode:        viper.GetString("mode"),
				Addr:        viper.GetString("addr"),
				Port:        viper.GetInt("port"),
				Data:        viper.GetString("data"),
				CatalogPath: viper.GetString("catalog"),
				Version:     version.GetCurrentVersion(viper.GetString("mode")),
			}
			instanceProfile.FromEnv()
			if err := instanceProfile.Validate(); err != nil {
				panic(err)
			}

			ctx, cancel := context.WithCancel(context.Background())

			cat, err := catalog.Load(instanceProfile.CatalogPath)
			if err != nil {
				cancel()
				slog.Error("failed to load job catalog", "path", instanceProfile.CatalogPath, "error", err)
				return
			}

			dbDriver, err := sqlite.NewDB(instanceProfile)
			if err != nil {
				cancel()
				slog.Error("failed to create db driver", "error", err)
				return
			}

			storeInstance := store.New(dbDriver, instanceProfile)
			if err := storeInstance.Migrate(ctx); err != nil {
				cancel()
				slog.Error("failed to migrate", "error", err)
				return
			}

			aiConfig := ai.NewConfigFromProfile(instanceProfile)
			if err := aiConfig.Validate(); err != nil {
				cancel()
				slog.Error("invalid ai configuration", "error", err)
				return
			}
			embeddingService, err := ai.NewEmbeddingService(&aiConfig.Embedding)
			if err != nil {
				cancel()
				slog.Error("failed to create embedding service", "error", err)
				return
			}
			generationService := ai.NewGenerationService(&aiConfig.Generation)

			indexClient := endee.NewClient(endee.Config{
				BaseURL: instanceProfile.IndexURL,
				Index:   instanceProfile.IndexName,
				Timeout: time.Duration(instanceProfile.IndexTimeout) * time.Second,
			})

			exporter := metrics.NewPrometheusExporter(metrics.DefaultConfig())
			engine := retrieval.NewEngine(cat, embeddingService, indexClient, generationService, exporter)

			// Best effort: the index server may not be up yet, searches will
			// surface the upstream error until it is.
			if err := engine.EnsureIndex(ctx, instanceProfile.IndexDim, instanceProfile.IndexSpaceType); err != nil {
				slog.Warn("failed to ensure vector index", "error", err)
			}

			s, err := server.NewServer(ctx, instanceProfile, storeInstance, cat, engine, exporter)
			if err != nil {
				cancel()
				slog.Error("failed to create server", "error", err)
				return
			}

			c := make(chan os.Signal, 1)
			// Trigger graceful shutdown on SIGINT or SIGTERM.
			// The default signal sent by the `kill` command is SIGTERM,
			// which is taken as the graceful shutdown signal for many systems, eg., Kubernetes, Gunicorn.
			signal.Notify(c, terminationSignals...)

			printGreetings(instanceProfile, cat.Size())

			go func() {
				<-c
				s.Shutdown(ctx)
				cancel()
			}()

			if err := s.Start(ctx); err != nil {
				if !errors.Is(err, http.ErrServerClosed) {
					slog.Error("failed to start server", "error", err)
					cancel()
				}
			}

			// Wait for CTRL-C.
			<-ctx.Done()
		},
	}
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("port", 8000)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8000, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("catalog", "", "path to the job catalog CSV")

	for _, flag := range []string{"mode", "addr", "port", "data", "catalog"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("jobsense")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func printGreetings(profile *profile.Profile, catalogSize int) {
	fmt.Printf("JobSense %s started successfully!\n", profile.Version)

	if profile.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
	}

	fmt.Printf("Data directory: %s\n", profile.Data)
	fmt.Printf("Job catalog: %s (%d jobs)\n", profile.CatalogPath, catalogSize)
	fmt.Printf("Vector index: %s @ %s\n", profile.IndexName, profile.IndexURL)
	fmt.Printf("Mode: %s\n", profile.Mode)

	if len(profile.Addr) == 0 {
		fmt.Printf("Server running on port %d\n", profile.Port)
		fmt.Printf("Access JobSense at: http://localhost:%d\n", profile.Port)
	} else {
		fmt.Printf("Server running on %s:%d\n", profile.Addr, profile.Port)
	}
}

// isRunningAsSystemdService detects if the process is running under systemd.
func isRunningAsSystemdService() bool {
	// Check if invoked by systemd (environment variables set by systemd).
	return os.Getenv("INVOCATION_ID") != "" || os.Getenv("WATCHDOG_USEC") != ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
