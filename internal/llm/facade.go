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

// Provider calls inherit the long chat-completion timeout; LLM responses
// can take minutes at high token limits.
const providerCallTimeout = 120 * time.Second

// FacadeClient talks to the unified multi-provider generation gateway. The
// gateway accepts a provider-qualified model id plus a flat prompt and
// returns a provider-shaped JSON body that ExtractText can parse.
type FacadeClient struct {
	mu      sync.RWMutex
	baseURL string
	apiKey  string

	client  *http.Client
	limiter *rate.Limiter
}

// facadeRequest is the gateway's generate payload
type facadeRequest struct {
	Model  string           `json:"model"`
	Prompt string           `json:"prompt"`
	System string           `json:"system,omitempty"`
	Config GenerationConfig `json:"config"`
}

// NewFacadeClient creates a facade client. Outbound calls are throttled to
// keep one misbehaving tenant from exhausting the gateway quota.
func NewFacadeClient(baseURL, apiKey string) *FacadeClient {
	return &FacadeClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: providerCallTimeout},
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// UpdateCredentials swaps the gateway endpoint and key, used by the
// providers.json hot-reload watcher.
func (c *FacadeClient) UpdateCredentials(baseURL, apiKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = baseURL
	c.apiKey = apiKey
}

func (c *FacadeClient) credentials() (string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL, c.apiKey
}

// Generate invokes the gateway and returns the raw response body for shape
// probing. Any non-200 status is an error; the caller decides whether to
// fall back.
func (c *FacadeClient) Generate(ctx context.Context, modelID, prompt, system string, cfg GenerationConfig) (json.RawMessage, error) {
	baseURL, apiKey := c.credentials()
	if baseURL == "" {
		return nil, fmt.Errorf("generation gateway not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	reqJSON, err := json.Marshal(facadeRequest{
		Model:  modelID,
		Prompt: prompt,
		System: system,
		Config: cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/generate", bytes.NewBuffer(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

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
		return nil, fmt.Errorf("gateway error (status %d): %s", resp.StatusCode, string(body))
	}

	return json.RawMessage(body), nil
}
