package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"promptforge/internal/llm"
	"promptforge/internal/logging"
	"promptforge/internal/models"
	"promptforge/internal/prompt"
)

// ErrInvalidRequest marks a malformed generation request; the HTTP layer
// maps it to a 400 before any provider call happens.
var ErrInvalidRequest = errors.New("missing optimizer or userInput")

// SentinelResponse is returned in place of an error when no backend
// produced usable text. Kept as a normal 200 response so raw provider
// errors never leak into a chat transcript.
const SentinelResponse = "Sorry, I couldn't generate a response right now. Please try again."

// FacadeBackend is the unified multi-provider generation gateway
type FacadeBackend interface {
	Generate(ctx context.Context, modelID, promptText, system string, cfg llm.GenerationConfig) (json.RawMessage, error)
}

// FallbackBackend is the native chat-completions endpoint used when the
// facade yields nothing for an OpenAI-provider optimizer
type FallbackBackend interface {
	CreateCompletion(ctx context.Context, model string, messages []llm.Message, cfg llm.GenerationConfig) (json.RawMessage, error)
}

// GenerationService runs the content-generation pipeline: prompt assembly,
// the primary facade call, the native fallback, response normalization, and
// fire-and-forget usage recording.
type GenerationService struct {
	facade   FacadeBackend
	fallback FallbackBackend
	usage    *UsageService
}

// NewGenerationService creates a new generation service. usage may be nil;
// recording is then skipped entirely.
func NewGenerationService(facade FacadeBackend, fallback FallbackBackend, usage *UsageService) *GenerationService {
	return &GenerationService{
		facade:   facade,
		fallback: fallback,
		usage:    usage,
	}
}

// Generate produces the optimized content for one conversational turn.
// Provider failures are absorbed: the primary error only triggers the
// fallback eligibility check, and total exhaustion degrades to the sentinel
// text. The only error returned is ErrInvalidRequest.
func (s *GenerationService) Generate(ctx context.Context, req *models.GenerateRequest, userID string) (string, error) {
	if req == nil || req.Optimizer == nil || strings.TrimSpace(req.UserInput) == "" {
		return "", ErrInvalidRequest
	}

	started := time.Now()
	if m := GetMetrics(); m != nil {
		m.GenerationRequests.Inc()
		defer func() {
			m.GenerationLatency.Observe(time.Since(started).Seconds())
		}()
	}

	optimizer := req.Optimizer
	provider := strings.ToLower(optimizer.Model.Provider)
	modelID := llm.ResolveModelID(optimizer.Model.Provider, optimizer.Model.Model)

	reqLog := logging.WithGeneration(uuid.New().String(), optimizer.ID, userID)
	reqLog.Debug("generation request", "model", modelID, "historyTurns", len(req.History), "hasAttachment", req.Attachment != nil)

	cfg := llm.ResolveConfig(
		provider,
		optimizer.Model.Model,
		optimizer.Model.Temperature,
		optimizer.Model.MaxTokens,
		optimizer.Model.TopP,
	)

	hasAttachment := req.Attachment != nil && strings.TrimSpace(req.Attachment.Text) != ""
	system := prompt.BuildSystem(optimizer.SystemPrompt, optimizer.Knowledge, hasAttachment)
	framed := prompt.Frame(req.History, req.UserInput, req.Attachment, system, optimizer.Generation.HistoryMessages)

	text := s.primaryCall(ctx, modelID, framed.FlatPrompt, system, cfg)

	// Fallback only exists for the OpenAI provider; other providers go
	// straight to the sentinel when the facade produced nothing.
	if strings.TrimSpace(text) == "" && provider == llm.ProviderOpenAI && s.fallback != nil {
		text = s.fallbackCall(ctx, optimizer.Model.Model, framed.Messages, cfg)
	}

	if strings.TrimSpace(text) == "" {
		if m := GetMetrics(); m != nil {
			m.GenerationExhaust.Inc()
		}
		log.Printf("⚠️  Generation exhausted for optimizer %s (model %s)", optimizer.ID, modelID)
		text = SentinelResponse
	}

	s.recordUsage(userID, optimizer.ID, framed.FlatPrompt, text)

	return text, nil
}

func (s *GenerationService) primaryCall(ctx context.Context, modelID, flatPrompt, system string, cfg llm.GenerationConfig) string {
	raw, err := s.facade.Generate(ctx, modelID, flatPrompt, system, cfg)
	if err != nil {
		log.Printf("⚠️  Facade call failed for model %s: %v", modelID, err)
		if m := GetMetrics(); m != nil {
			m.GenerationErrors.WithLabelValues("facade").Inc()
		}
		return ""
	}

	text, ok := llm.ExtractText(raw)
	if !ok {
		return ""
	}
	return text
}

func (s *GenerationService) fallbackCall(ctx context.Context, model string, messages []llm.Message, cfg llm.GenerationConfig) string {
	if m := GetMetrics(); m != nil {
		m.GenerationFallback.Inc()
	}

	raw, err := s.fallback.CreateCompletion(ctx, model, messages, cfg)
	if err != nil {
		log.Printf("⚠️  Fallback completion failed for model %s: %v", model, err)
		if m := GetMetrics(); m != nil {
			m.GenerationErrors.WithLabelValues("fallback").Inc()
		}
		return ""
	}

	text, ok := llm.ExtractText(raw)
	if !ok {
		return ""
	}
	return text
}

// recordUsage fires the best-effort usage increment after the response text
// is final. It runs detached from the request context so a client
// disconnect cannot cancel the write.
func (s *GenerationService) recordUsage(userID, optimizerID, promptText, responseText string) {
	if s.usage == nil || userID == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.usage.Record(ctx, userID, optimizerID, promptText, responseText)
	}()
}
