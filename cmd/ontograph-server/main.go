// Package main provides the HTTP server for ontograph.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raphaelgruber/ontograph/internal/config"
	"github.com/raphaelgruber/ontograph/internal/extract"
	"github.com/raphaelgruber/ontograph/internal/llm"
	"github.com/raphaelgruber/ontograph/internal/metrics"
	"github.com/raphaelgruber/ontograph/internal/ontology"
	"github.com/raphaelgruber/ontograph/internal/registry"
	"github.com/raphaelgruber/ontograph/internal/server"
	"github.com/raphaelgruber/ontograph/internal/tagger"
)

func main() {
	cfg := config.Load()

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
	}()
	slog.SetDefault(logger)

	slog.Info("starting ontograph-server", "port", cfg.Port)

	ontologies := ontology.NewRegistry(logger)
	if cfg.OntologyFile != "" {
		count, err := ontologies.LoadSeedFile(cfg.OntologyFile)
		if err != nil {
			slog.Error("failed to load ontology seed file", "file", cfg.OntologyFile, "error", err)
			os.Exit(1)
		}
		slog.Info("ontologies seeded", "file", cfg.OntologyFile, "count", count)
	}

	objects := registry.NewStore()
	collector := metrics.NewCollector()

	opts := extract.Options{
		Ontologies:       ontologies,
		Objects:          objects,
		Metrics:          collector,
		Logger:           logger,
		DefaultDatabase:  cfg.DefaultDatabase,
		BatchConcurrency: cfg.BatchConcurrency,
	}

	// A failed model setup leaves the capability unconfigured rather than
	// refusing to start: the candidate and registry endpoints still work.
	if model, err := llm.NewModel(cfg); err != nil {
		slog.Warn("LLM extraction unavailable", "provider", cfg.LLMProvider, "error", err)
	} else {
		opts.LLM = model
		slog.Info("LLM model ready", "provider", cfg.LLMProvider, "model", cfg.LLMModel)
	}

	if embedder, err := llm.NewEmbedder(cfg); err != nil {
		slog.Warn("embeddings unavailable", "provider", cfg.EmbedProvider, "error", err)
	} else {
		opts.Embedder = embedder
		slog.Info("embedding model ready", "model", cfg.EmbedModel, "dimension", cfg.EmbedDimension)
	}

	if cfg.TaggerURL != "" {
		opts.Tagger = tagger.NewRemoteTagger(cfg.TaggerURL)
		slog.Info("using remote tagger", "url", cfg.TaggerURL)
	} else {
		opts.Tagger = tagger.NewPatternTagger()
		slog.Info("using built-in pattern tagger")
	}

	svc := extract.NewService(opts)

	srv := server.New(server.Options{
		Service:    svc,
		Ontologies: ontologies,
		Objects:    objects,
		Metrics:    collector,
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Minute, // Long for batch LLM extraction
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("API available", "url", fmt.Sprintf("http://localhost:%s/", cfg.Port))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
