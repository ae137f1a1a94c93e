package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"promptforge/internal/llm"
	"promptforge/internal/models"
	"promptforge/internal/services"
)

type recordingFacade struct {
	response json.RawMessage
	err      error
	calls    int
}

func (f *recordingFacade) Generate(ctx context.Context, modelID, promptText, system string, cfg llm.GenerationConfig) (json.RawMessage, error) {
	f.calls++
	return f.response, f.err
}

func setupGenerateApp(facade services.FacadeBackend) *fiber.App {
	generation := services.NewGenerationService(facade, nil, nil)
	handler := NewGenerateHandler(generation, nil)

	app := fiber.New()
	app.Post("/api/generate-optimized-content", handler.Generate)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Failed to decode response %q: %v", raw, err)
	}
	return resp.StatusCode, decoded
}

func generateBody(userInput string) map[string]any {
	return map[string]any{
		"optimizer": map[string]any{
			"id":           "opt-1",
			"name":         "Copywriter",
			"systemPrompt": "You write copy.",
			"model": map[string]any{
				"provider":    "google",
				"model":       "gemini-2.0-flash",
				"temperature": 0.7,
				"maxTokens":   1024,
				"topP":        0.9,
			},
		},
		"userInput": userInput,
	}
}

func TestGenerateEndpoint_Success(t *testing.T) {
	facade := &recordingFacade{response: json.RawMessage(`{"text": "optimized result"}`)}
	app := setupGenerateApp(facade)

	status, body := postJSON(t, app, "/api/generate-optimized-content", generateBody("write a slogan"))

	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if body["optimizedContent"] != "optimized result" {
		t.Errorf("Expected optimizedContent, got %v", body)
	}
}

func TestGenerateEndpoint_MissingOptimizer(t *testing.T) {
	facade := &recordingFacade{response: json.RawMessage(`{"text": "x"}`)}
	app := setupGenerateApp(facade)

	status, body := postJSON(t, app, "/api/generate-optimized-content", map[string]any{
		"userInput": "hello",
	})

	if status != fiber.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", status)
	}
	if body["error"] != "Missing optimizer or userInput" {
		t.Errorf("Expected validation message, got %v", body)
	}
	if facade.calls != 0 {
		t.Errorf("Validation failure must not reach the provider, got %d calls", facade.calls)
	}
}

func TestGenerateEndpoint_MissingUserInput(t *testing.T) {
	facade := &recordingFacade{}
	app := setupGenerateApp(facade)

	body := generateBody("")
	status, decoded := postJSON(t, app, "/api/generate-optimized-content", body)

	if status != fiber.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", status)
	}
	if decoded["error"] != "Missing optimizer or userInput" {
		t.Errorf("Expected validation message, got %v", decoded)
	}
}

func TestGenerateEndpoint_SentinelOnProviderFailure(t *testing.T) {
	facade := &recordingFacade{err: errors.New("provider down")}
	app := setupGenerateApp(facade)

	status, body := postJSON(t, app, "/api/generate-optimized-content", generateBody("write a slogan"))

	if status != fiber.StatusOK {
		t.Fatalf("Provider failure must still return 200, got %d", status)
	}
	if body["optimizedContent"] != services.SentinelResponse {
		t.Errorf("Expected sentinel text, got %v", body["optimizedContent"])
	}
}

func TestGenerateEndpoint_WithHistoryAndAttachment(t *testing.T) {
	facade := &recordingFacade{response: json.RawMessage(`{"text": "contextual answer"}`)}
	app := setupGenerateApp(facade)

	body := generateBody("summarize")
	body["history"] = []map[string]any{
		{"role": models.RoleUser, "content": "earlier question"},
		{"role": models.RoleAssistant, "content": "earlier answer"},
	}
	body["attachment"] = map[string]any{
		"name": "report.txt",
		"type": "text/plain",
		"text": "quarterly numbers",
	}

	status, decoded := postJSON(t, app, "/api/generate-optimized-content", body)

	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if decoded["optimizedContent"] != "contextual answer" {
		t.Errorf("Expected provider text, got %v", decoded)
	}
	if facade.calls != 1 {
		t.Errorf("Expected exactly one provider call, got %d", facade.calls)
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := fiber.New()
	handler := NewHealthHandler()
	app.Get("/health", handler.Handle)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}
