package tagger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raphaelgruber/ontograph/internal/models"
)

// remoteConfidence is assigned to candidates whose tagger reported none.
const remoteConfidence = 0.85

// RemoteTagger calls an external NLP tagging service over HTTP. The service
// contract is POST {base}/extract-entities with {"text": ...}, returning a
// JSON array of candidate entities.
type RemoteTagger struct {
	baseURL    string
	httpClient *http.Client
}

var _ Tagger = (*RemoteTagger)(nil)

// NewRemoteTagger creates a client for the tagging service at baseURL.
func NewRemoteTagger(baseURL string) *RemoteTagger {
	return &RemoteTagger{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type remoteRequest struct {
	Text string `json:"text"`
}

// Extract posts the text to the remote service and normalizes the response.
func (t *RemoteTagger) Extract(ctx context.Context, text string) ([]models.Entity, error) {
	body, err := json.Marshal(remoteRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/extract-entities", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call tagger: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tagger returned %s: %s", resp.Status, string(data))
	}

	var entities []models.Entity
	if err := json.NewDecoder(resp.Body).Decode(&entities); err != nil {
		return nil, fmt.Errorf("decode tagger response: %w", err)
	}

	for i := range entities {
		entities[i].Type = MapLabel(entities[i].Type)
		if entities[i].Confidence == 0 {
			entities[i].Confidence = remoteConfidence
		}
	}
	return entities, nil
}
