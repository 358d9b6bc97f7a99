// Package semanticapi is the HTTP client for the remote semantic
// analysis service.
package semanticapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"redline/logger"

	"github.com/andybalholm/brotli"
)

// AnalyzeRequest is the request format for the semantic analysis API.
type AnalyzeRequest struct {
	Text          string   `json:"text"`
	PreferredTone string   `json:"preferred_tone,omitempty"`
	WritingGoals  []string `json:"writing_goals,omitempty"`
}

// WireSuggestion is one suggestion as returned by the API. Position is
// an advisory hint into the submitted text, never trusted without
// verification. Original is best-effort verbatim; violations are
// tolerated downstream.
type WireSuggestion struct {
	ID            string  `json:"id"`
	Kind          string  `json:"kind"`
	Original      string  `json:"original"`
	Suggested     string  `json:"suggested"`
	Position      int     `json:"position"`
	ContextBefore string  `json:"context_before"`
	ContextAfter  string  `json:"context_after"`
	Explanation   string  `json:"explanation"`
	Confidence    float64 `json:"confidence"`
}

// AnalyzeResponse is the response format from the semantic analysis API.
type AnalyzeResponse struct {
	Suggestions []json.RawMessage `json:"suggestions"`
	Error       string            `json:"error"`
}

// Client is the HTTP client for the semantic analysis API.
type Client struct {
	HTTPClient *http.Client
	URL        string
	AuthToken  string
	UserAgent  string
}

// NewClient creates a new semantic API client.
func NewClient(url, apiKey string, timeoutMs int) *Client {
	timeout := time.Duration(0)
	if timeoutMs > 0 {
		timeout = time.Duration(timeoutMs) * time.Millisecond
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		URL:       url,
		AuthToken: apiKey,
	}
}

// DoAnalyze sends an analysis request and returns the parsed
// suggestions. Individual suggestion entries that fail to parse are
// skipped rather than failing the whole call.
func (c *Client) DoAnalyze(ctx context.Context, req *AnalyzeRequest) ([]*WireSuggestion, error) {
	defer logger.Trace("semanticapi.DoAnalyze")()

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Compress with brotli (quality 1 for speed)
	var compressedBuf bytes.Buffer
	brotliWriter := brotli.NewWriterLevel(&compressedBuf, 1)
	if _, err := brotliWriter.Write(jsonData); err != nil {
		return nil, fmt.Errorf("failed to compress request: %w", err)
	}
	if err := brotliWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close brotli writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.URL, &compressedBuf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Content-Encoding", "br")
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}
	if c.AuthToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if apiResp.Error != "" {
		return nil, fmt.Errorf("analysis service error: %s", apiResp.Error)
	}

	var results []*WireSuggestion
	for _, raw := range apiResp.Suggestions {
		var ws WireSuggestion
		if err := json.Unmarshal(raw, &ws); err != nil {
			logger.Warn("semanticapi: skipping malformed suggestion entry: %v", err)
			continue
		}
		results = append(results, &ws)
	}
	return results, nil
}
