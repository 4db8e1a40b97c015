package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/raphaelgruber/ontograph/internal/extract"
	"github.com/raphaelgruber/ontograph/internal/ontology"
	"github.com/raphaelgruber/ontograph/internal/registry"
)

type extractRequest struct {
	Text     string `json:"text"`
	Ontology string `json:"ontology"`
	Database string `json:"database"`
}

type batchExtractRequest struct {
	Texts    []string `json:"texts"`
	Ontology string   `json:"ontology"`
	Database string   `json:"database"`
}

type embedRequest struct {
	Texts []string `json:"texts"`
}

// writeError maps the pipeline error taxonomy onto HTTP status codes:
// configuration gaps are the caller's to fix, missing objects are 404,
// model transport failures are a bad gateway.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case extract.IsConfigurationError(err):
		status = http.StatusBadRequest
	case errors.Is(err, registry.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, extract.ErrUpstream):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) handleExtractGraph(c *gin.Context) {
	var req extractRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	result, err := s.service.ExtractGraph(c.Request.Context(), req.Text, req.Ontology, req.Database)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleBatchExtractGraph(c *gin.Context) {
	var req batchExtractRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Texts == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "texts is required"})
		return
	}

	results := s.service.ExtractBatch(c.Request.Context(), req.Texts, req.Ontology, req.Database)
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

func (s *Server) handleExtractEntities(c *gin.Context) {
	var req extractRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	entities, err := s.service.ExtractEntities(c.Request.Context(), req.Text, req.Ontology)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entities": entities,
		"count":    len(entities),
	})
}

func (s *Server) handleRefineEntities(c *gin.Context) {
	var req extractRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	result, err := s.service.RefineEntities(c.Request.Context(), req.Text, req.Ontology)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleEmbed(c *gin.Context) {
	var req embedRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Texts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "texts is required"})
		return
	}

	vectors, err := s.service.Embed(c.Request.Context(), req.Texts)
	if err != nil {
		s.writeError(c, err)
		return
	}
	model, dimension, _ := s.service.EmbedderInfo()
	c.JSON(http.StatusOK, gin.H{
		"embeddings": vectors,
		"count":      len(vectors),
		"model":      model,
		"dimension":  dimension,
	})
}

func (s *Server) handleRegisterOntology(c *gin.Context) {
	var input ontology.RegisterInput
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(input.EntityTypes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_types is required"})
		return
	}

	s.ontologies.Register(input)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListOntologies(c *gin.Context) {
	names := s.ontologies.List()
	c.JSON(http.StatusOK, gin.H{
		"ontologies": names,
		"details":    s.ontologies.Summaries(),
		"count":      len(names),
	})
}

func (s *Server) handleGetObject(c *gin.Context) {
	rec, err := s.objects.Get(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleListObjects(c *gin.Context) {
	records := s.objects.List()
	total := len(records)
	if limit := queryInt(c, "limit", 0); limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	c.JSON(http.StatusOK, gin.H{
		"objects": records,
		"count":   len(records),
		"total":   total,
	})
}

func (s *Server) handleSearchObjects(c *gin.Context) {
	results := s.objects.Search(
		c.Query("type"),
		c.Query("value"),
		queryInt(c, "limit", registry.DefaultSearchLimit),
	)
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := gin.H{
		"status":             "healthy",
		"active_ontologies":  s.ontologies.List(),
		"registered_objects": s.objects.Len(),
	}
	if model, dimension, ok := s.service.EmbedderInfo(); ok {
		resp["embedding_model"] = model
		resp["embedding_dimension"] = dimension
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleStats(c *gin.Context) {
	snap := s.metrics.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"uptime_seconds": snap.UptimeSeconds,
		"operations":     snap.Operations,
		"objects":        s.objects.Len(),
		"ontologies":     len(s.ontologies.List()),
	})
}

// queryInt parses an integer query parameter, returning fallback on absence
// or garbage.
func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
