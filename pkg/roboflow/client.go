// Package roboflow provides a client for the Roboflow hosted inference
// API. Given a JPEG frame it returns candidate classifications with
// confidence scores.
package roboflow

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aarnavshah12/Posturify/internal/httpc"
)

// DefaultBaseURL is the Roboflow hosted detection endpoint.
const DefaultBaseURL = "https://detect.roboflow.com"

// Prediction is one candidate classification.
type Prediction struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// Inferencer is the interface consumed by the acquisition loop.
type Inferencer interface {
	Infer(ctx context.Context, jpeg []byte) ([]Prediction, error)
}

// Client calls the Roboflow hosted inference API.
type Client struct {
	baseURL string
	apiKey  string
	modelID string
	http    *http.Client
}

// Config holds client construction parameters.
type Config struct {
	APIKey  string
	Project string // workspace/project or bare project name
	Version int
	BaseURL string // defaults to DefaultBaseURL
}

// NewClient creates a Roboflow client. The model ID is derived from the
// project: a workspace prefix before the first slash is stripped.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("roboflow: %w", ErrNoAPIKey)
	}
	if cfg.Project == "" {
		return nil, fmt.Errorf("roboflow: %w", ErrNoProject)
	}

	project := cfg.Project
	if i := strings.Index(project, "/"); i >= 0 {
		project = project[i+1:]
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		modelID: fmt.Sprintf("%s/%d", project, cfg.Version),
		http:    httpc.Client,
	}, nil
}

// ModelID returns the derived model identifier (project/version).
func (c *Client) ModelID() string {
	return c.modelID
}

// Infer sends a JPEG frame for classification and returns the candidate
// predictions. An empty slice means no detections.
func (c *Client) Infer(ctx context.Context, jpeg []byte) ([]Prediction, error) {
	body := base64.StdEncoding.EncodeToString(jpeg)
	url := fmt.Sprintf("%s/%s?api_key=%s", c.baseURL, c.modelID, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference API status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var result inferResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w (body: %s)", err, truncate(string(raw), 200))
	}

	return result.Predictions, nil
}

// Best returns the highest-confidence prediction, or nil for an empty set.
func Best(preds []Prediction) *Prediction {
	if len(preds) == 0 {
		return nil
	}
	best := &preds[0]
	for i := range preds[1:] {
		if preds[i+1].Confidence > best.Confidence {
			best = &preds[i+1]
		}
	}
	return best
}

type inferResponse struct {
	Predictions []Prediction `json:"predictions"`
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
