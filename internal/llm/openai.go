package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Message is a chat-style message for the native completion endpoint
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAIClient talks directly to an OpenAI-compatible chat-completions
// endpoint. It is the documented fallback path when the facade yields no
// usable text for an OpenAI-provider optimizer.
type OpenAIClient struct {
	mu      sync.RWMutex
	baseURL string
	apiKey  string

	client  *http.Client
	limiter *rate.Limiter
}

// completionRequest is the native chat-completions payload. TopP is never
// sent on this path; newer OpenAI models use max_completion_tokens.
type completionRequest struct {
	Model               string    `json:"model"`
	Messages            []Message `json:"messages"`
	Temperature         float64   `json:"temperature"`
	MaxCompletionTokens int       `json:"max_completion_tokens"`
	Stream              bool      `json:"stream"`
}

// NewOpenAIClient creates the native fallback client
func NewOpenAIClient(baseURL, apiKey string) *OpenAIClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 120 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// UpdateCredentials swaps the endpoint and key on providers.json reload
func (c *OpenAIClient) UpdateCredentials(baseURL, apiKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if baseURL != "" {
		c.baseURL = baseURL
	}
	c.apiKey = apiKey
}

func (c *OpenAIClient) credentials() (string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL, c.apiKey
}

// CreateCompletion performs a non-streaming chat completion and returns the
// raw response body for shape probing.
func (c *OpenAIClient) CreateCompletion(ctx context.Context, model string, messages []Message, cfg GenerationConfig) (json.RawMessage, error) {
	baseURL, apiKey := c.credentials()
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	reqJSON, err := json.Marshal(completionRequest{
		Model:               model,
		Messages:            messages,
		Temperature:         cfg.Temperature,
		MaxCompletionTokens: cfg.MaxTokens,
		Stream:              false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/chat/completions", bytes.NewBuffer(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return json.RawMessage(body), nil
}
