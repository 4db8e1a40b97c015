// Package client provides a typed HTTP client for the ontograph server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/raphaelgruber/ontograph/internal/metrics"
	"github.com/raphaelgruber/ontograph/internal/models"
	"github.com/raphaelgruber/ontograph/internal/ontology"
)

// Client talks to one ontograph server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client.
// If baseURL is empty, uses ONTOGRAPH_SERVER_URL env var or defaults to
// localhost:8000. Timeout can be configured via ONTOGRAPH_CLIENT_TIMEOUT
// (default 10m for batch LLM operations). ONTOGRAPH_API_KEY, when set, is
// sent as a bearer token for deployments behind an auth proxy.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("ONTOGRAPH_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	timeout := 10 * time.Minute
	if t := os.Getenv("ONTOGRAPH_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  os.Getenv("ONTOGRAPH_API_KEY"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Retry policy: transport errors and gateway-class statuses get another
// attempt after an exponentially growing pause.
const (
	maxAttempts    = 3
	initialBackoff = 200 * time.Millisecond
)

// do sends one request and decodes the JSON response into result, retrying
// transient failures up to maxAttempts.
func (c *Client) do(ctx context.Context, method, path string, payload, result any) error {
	var encoded []byte
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		encoded = data
	}

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		var body io.Reader
		if encoded != nil {
			body = bytes.NewReader(encoded)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		if encoded != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("execute request: %w", err)
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			serverErr := fmt.Errorf("server error: %s - %s", resp.Status, string(data))
			var errResp errorResponse
			if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
				serverErr = fmt.Errorf("server error: %s - %s", resp.Status, errResp.Error)
			}
			if retryableStatus(resp.StatusCode) {
				lastErr = serverErr
				continue
			}
			return serverErr
		}

		if result != nil && len(data) > 0 {
			if err := json.Unmarshal(data, result); err != nil {
				return fmt.Errorf("unmarshal response: %w", err)
			}
		}
		return nil
	}
	return lastErr
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

type extractRequest struct {
	Text     string `json:"text"`
	Ontology string `json:"ontology,omitempty"`
	Database string `json:"database,omitempty"`
}

type batchExtractRequest struct {
	Texts    []string `json:"texts"`
	Ontology string   `json:"ontology,omitempty"`
	Database string   `json:"database,omitempty"`
}

// EntitiesResponse is the raw candidate extraction result.
type EntitiesResponse struct {
	Entities []models.Entity `json:"entities"`
	Count    int             `json:"count"`
}

// BatchResponse is the batch extraction result, one slot per input text.
type BatchResponse struct {
	Results []*models.GraphResult `json:"results"`
	Count   int                   `json:"count"`
}

// EmbedResponse carries embedding vectors and the model that produced them.
type EmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Count      int         `json:"count"`
	Model      string      `json:"model"`
	Dimension  int         `json:"dimension"`
}

// OntologyListResponse lists the registered ontologies.
type OntologyListResponse struct {
	Ontologies []string                    `json:"ontologies"`
	Details    map[string]ontology.Summary `json:"details"`
	Count      int                         `json:"count"`
}

// ObjectsResponse is a page of provenance records in insertion order.
type ObjectsResponse struct {
	Objects []models.ProvenanceRecord `json:"objects"`
	Count   int                       `json:"count"`
	Total   int                       `json:"total"`
}

// SearchResponse carries provenance records matching a search.
type SearchResponse struct {
	Results []models.ProvenanceRecord `json:"results"`
	Count   int                       `json:"count"`
}

// HealthResponse is the server health report.
type HealthResponse struct {
	Status             string   `json:"status"`
	ActiveOntologies   []string `json:"active_ontologies"`
	RegisteredObjects  int      `json:"registered_objects"`
	EmbeddingModel     string   `json:"embedding_model,omitempty"`
	EmbeddingDimension int      `json:"embedding_dimension,omitempty"`
}

// StatsResponse is the server runtime statistics report.
type StatsResponse struct {
	UptimeSeconds float64                              `json:"uptime_seconds"`
	Operations    map[string]metrics.OperationSnapshot `json:"operations"`
	Objects       int                                  `json:"objects"`
	Ontologies    int                                  `json:"ontologies"`
}

// ExtractGraph runs one document through the full extraction pipeline.
func (c *Client) ExtractGraph(ctx context.Context, text, ontologyName, database string) (*models.GraphResult, error) {
	var result models.GraphResult
	err := c.do(ctx, http.MethodPost, "/extract-graph",
		extractRequest{Text: text, Ontology: ontologyName, Database: database}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// BatchExtractGraph extracts graphs from multiple documents concurrently.
func (c *Client) BatchExtractGraph(ctx context.Context, texts []string, ontologyName, database string) (*BatchResponse, error) {
	var result BatchResponse
	err := c.do(ctx, http.MethodPost, "/batch-extract-graph",
		batchExtractRequest{Texts: texts, Ontology: ontologyName, Database: database}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ExtractEntities runs the raw candidate extraction path only.
func (c *Client) ExtractEntities(ctx context.Context, text, ontologyName string) (*EntitiesResponse, error) {
	var result EntitiesResponse
	err := c.do(ctx, http.MethodPost, "/extract-entities",
		extractRequest{Text: text, Ontology: ontologyName}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RefineEntities extracts raw candidates and refines them with the LLM.
func (c *Client) RefineEntities(ctx context.Context, text, ontologyName string) (*models.RefinedResult, error) {
	var result models.RefinedResult
	err := c.do(ctx, http.MethodPost, "/refine-entities",
		extractRequest{Text: text, Ontology: ontologyName}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Embed generates embedding vectors for the given texts.
func (c *Client) Embed(ctx context.Context, texts []string) (*EmbedResponse, error) {
	var result EmbedResponse
	err := c.do(ctx, http.MethodPost, "/embed", map[string][]string{"texts": texts}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RegisterOntology creates or overwrites a named ontology configuration.
func (c *Client) RegisterOntology(ctx context.Context, input ontology.RegisterInput) error {
	return c.do(ctx, http.MethodPost, "/ontologies", input, nil)
}

// ListOntologies lists all registered ontologies with summaries.
func (c *Client) ListOntologies(ctx context.Context) (*OntologyListResponse, error) {
	var result OntologyListResponse
	if err := c.do(ctx, http.MethodGet, "/ontologies", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetObject fetches the provenance record for one object id.
func (c *Client) GetObject(ctx context.Context, id string) (*models.ProvenanceRecord, error) {
	var result models.ProvenanceRecord
	if err := c.do(ctx, http.MethodGet, "/object/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListObjects lists provenance records in insertion order. A limit of 0
// returns everything.
func (c *Client) ListObjects(ctx context.Context, limit int) (*ObjectsResponse, error) {
	path := "/objects"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var result ObjectsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchObjects searches provenance records by type and value substring.
func (c *Client) SearchObjects(ctx context.Context, typeFilter, value string, limit int) (*SearchResponse, error) {
	q := url.Values{}
	if typeFilter != "" {
		q.Set("type", typeFilter)
	}
	if value != "" {
		q.Set("value", value)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/search-objects"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var result SearchResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health fetches the server health report.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var result HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Stats fetches the server runtime statistics.
func (c *Client) Stats(ctx context.Context) (*StatsResponse, error) {
	var result StatsResponse
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
