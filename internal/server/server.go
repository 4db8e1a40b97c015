// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raphaelgruber/ontograph/internal/extract"
	"github.com/raphaelgruber/ontograph/internal/metrics"
	"github.com/raphaelgruber/ontograph/internal/ontology"
	"github.com/raphaelgruber/ontograph/internal/registry"
)

// Options configures a Server.
type Options struct {
	Service    *extract.Service
	Ontologies *ontology.Registry
	Objects    *registry.Store
	Metrics    *metrics.Collector
	Logger     *slog.Logger
}

// Server routes HTTP requests into the extraction service and the
// ontology and object registries.
type Server struct {
	engine     *gin.Engine
	service    *extract.Service
	ontologies *ontology.Registry
	objects    *registry.Store
	metrics    *metrics.Collector
	logger     *slog.Logger
}

// New creates the server and registers all routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	s := &Server{
		engine:     engine,
		service:    opts.Service,
		ontologies: opts.Ontologies,
		objects:    opts.Objects,
		metrics:    opts.Metrics,
		logger:     logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/stats", s.handleStats)

	s.engine.POST("/extract-entities", s.handleExtractEntities)
	s.engine.POST("/refine-entities", s.handleRefineEntities)
	s.engine.POST("/extract-graph", s.handleExtractGraph)
	s.engine.POST("/batch-extract-graph", s.handleBatchExtractGraph)
	s.engine.POST("/embed", s.handleEmbed)

	s.engine.POST("/ontologies", s.handleRegisterOntology)
	s.engine.GET("/ontologies", s.handleListOntologies)

	s.engine.GET("/object/:id", s.handleGetObject)
	s.engine.GET("/objects", s.handleListObjects)
	s.engine.GET("/search-objects", s.handleSearchObjects)
}

// Handler returns the root HTTP handler for mounting into an http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}
