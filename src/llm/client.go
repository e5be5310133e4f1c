package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"trading-dashboard/src/helpers"
	"trading-dashboard/src/interfaces"
	"trading-dashboard/src/logger"
	"trading-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// Text-Generation Client
//
// Talks to an opaque chat-completions endpoint. The call is bounded by a
// timeout and retried with backoff; callers still treat any final failure
// as non-fatal and fall back to a canned response.
// -----------------------------------------------------------------------------

type Client struct {
	Config models.MGeneratorConfig
	Logger *logger.Logger

	httpClient *http.Client
}

// -----------------------------------------------------------------------------

func NewClient(cfg models.MGeneratorConfig, log *logger.Logger) *Client {
	return &Client{
		Config: cfg,
		Logger: log,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// -----------------------------------------------------------------------------
// Wire format (OpenAI-compatible chat completions)
// -----------------------------------------------------------------------------

type completionRequest struct {
	Model       string                   `json:"model"`
	Messages    []interfaces.ChatMessage `json:"messages"`
	Temperature float64                  `json:"temperature"`
	MaxTokens   int                      `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// -----------------------------------------------------------------------------

// Generate produces text for the given conversation.
func (c *Client) Generate(ctx context.Context, messages []interfaces.ChatMessage) (string, error) {
	if c.Config.Endpoint == "" {
		return "", fmt.Errorf("text-generation endpoint is not configured")
	}

	res, err := helpers.RetryWithBackoff(c.Logger, "text generation", c.Config.MaxRetries+1, 500*time.Millisecond, func() (interface{}, error) {
		return c.generateOnce(ctx, messages)
	})
	if err != nil {
		return "", err
	}

	return res.(string), nil
}

// -----------------------------------------------------------------------------

func (c *Client) generateOnce(ctx context.Context, messages []interfaces.ChatMessage) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       c.Config.Model,
		Messages:    messages,
		Temperature: c.Config.Temperature,
		MaxTokens:   c.Config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.Config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &helpers.GeneratorError{DashboardError: helpers.DashboardError{Message: "completion request failed", Cause: err}}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion endpoint returned %d: %s", resp.StatusCode, string(data))
	}

	var parsed completionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("completion endpoint error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
