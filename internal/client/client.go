// Package client is a Go client for the arcade HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finops-arcade/internal/api/models"
	"finops-arcade/internal/game"
	"finops-arcade/internal/grading"
	"finops-arcade/internal/model"
)

// Client calls a running arcade API server.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// New creates a client. If baseURL is empty, defaults to "http://localhost:8080".
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx answer decoded from the server's error body.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]interface{}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// do sends in as JSON (when non-nil) and decodes the answer into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Printf("[Client] Request failed: %s %s: %v (duration: %v)", method, path, err, duration)
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	log.Printf("[Client] %s %s: %d (duration: %v)", method, path, resp.StatusCode, duration)

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: "API_ERROR", Message: resp.Status}
		var er models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error.Code != "" {
			apiErr.Code = er.Error.Code
			apiErr.Message = er.Error.Message
			apiErr.Details = er.Error.Details
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// GetBill fetches a sanitized bill; an empty id asks for a random one.
func (c *Client) GetBill(ctx context.Context, id string) (*model.PublicBill, error) {
	path := "/api/v1/bill"
	if id != "" {
		path += "?id=" + url.QueryEscape(id)
	}
	var out model.PublicBill
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ValidateCategories(ctx context.Context, billID string, categories map[string]string) (*models.CategoriesResponse, error) {
	var out models.CategoriesResponse
	req := models.CategoriesRequest{BillID: billID, Categories: categories}
	if err := c.do(ctx, http.MethodPost, "/api/v1/validate-categories", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ValidateOptimizations(ctx context.Context, billID string, optimizations map[string]string) (*grading.OptimizationSummary, error) {
	var out grading.OptimizationSummary
	req := models.OptimizationsRequest{BillID: billID, Optimizations: optimizations}
	if err := c.do(ctx, http.MethodPost, "/api/v1/validate-optimizations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Tip(ctx context.Context) (string, error) {
	var out models.TipResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/tip", nil, &out); err != nil {
		return "", err
	}
	return out.Tip, nil
}

func (c *Client) ListScenarios(ctx context.Context) ([]models.ScenarioInfo, error) {
	var out []models.ScenarioInfo
	if err := c.do(ctx, http.MethodGet, "/api/v1/scenarios", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateScenarioSession opens a session of scenario. A nil seed lets the
// server pick one.
func (c *Client) CreateScenarioSession(ctx context.Context, scenario string, seed *int64) (*models.ScenarioSessionResponse, error) {
	var out models.ScenarioSessionResponse
	path := "/api/v1/scenarios/" + url.PathEscape(scenario) + "/sessions"
	if err := c.do(ctx, http.MethodPost, path, models.SeedRequest{Seed: seed}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StartScenario(ctx context.Context, sessionID string) (*models.ScenarioSessionResponse, error) {
	var out models.ScenarioSessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/scenario-sessions/"+url.PathEscape(sessionID)+"/start", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitChoice(ctx context.Context, sessionID string, stage model.StageID, index int) (*models.ChoiceResponse, error) {
	var out models.ChoiceResponse
	req := models.ChoiceRequest{StageID: string(stage), ChoiceIndex: &index}
	if err := c.do(ctx, http.MethodPost, "/api/v1/scenario-sessions/"+url.PathEscape(sessionID)+"/choice", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ScenarioResults(ctx context.Context, sessionID string) (*game.Results, error) {
	var out game.Results
	if err := c.do(ctx, http.MethodGet, "/api/v1/scenario-sessions/"+url.PathEscape(sessionID)+"/results", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
