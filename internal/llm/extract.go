package llm

import (
	"encoding/json"
	"strings"
)

// Provider response shapes diverge: the facade returns a direct text field
// (sometimes nested one level), OpenAI-compatible endpoints return
// choices/message/content, and Gemini-style endpoints return
// candidates/content/parts. Each shape gets its own parser; ExtractText
// tries them in fixed priority order and the first non-blank match wins.

type textParser func(raw json.RawMessage) (string, bool)

var textParsers = []textParser{
	parseFacadeText,
	parseChatCompletion,
	parseCandidates,
}

// ExtractText extracts plain text from any known provider response shape.
// Returns false when no shape yields usable text; callers treat that the
// same as an empty result.
func ExtractText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	for _, parse := range textParsers {
		if text, ok := parse(raw); ok {
			return text, true
		}
	}
	return "", false
}

// parseFacadeText handles {"text": ...} and the nested {"output": {"text": ...}}
func parseFacadeText(raw json.RawMessage) (string, bool) {
	var out struct {
		Text   string `json:"text"`
		Output struct {
			Text string `json:"text"`
		} `json:"output"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", false
	}
	if strings.TrimSpace(out.Text) != "" {
		return out.Text, true
	}
	if strings.TrimSpace(out.Output.Text) != "" {
		return out.Output.Text, true
	}
	return "", false
}

// parseChatCompletion handles the OpenAI-compatible completion shape
func parseChatCompletion(raw json.RawMessage) (string, bool) {
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", false
	}
	if len(out.Choices) == 0 {
		return "", false
	}
	content := out.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", false
	}
	return content, true
}

// parseCandidates handles the Gemini-style candidates/parts shape, both at
// the top level and nested under "output". Parts within a candidate are
// newline-joined; the first candidate with non-blank joined text wins.
func parseCandidates(raw json.RawMessage) (string, bool) {
	type candidate struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	}
	var out struct {
		Candidates []candidate `json:"candidates"`
		Output     struct {
			Candidates []candidate `json:"candidates"`
		} `json:"output"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", false
	}

	candidates := out.Candidates
	if len(candidates) == 0 {
		candidates = out.Output.Candidates
	}
	for _, c := range candidates {
		var fragments []string
		for _, p := range c.Content.Parts {
			if p.Text != "" {
				fragments = append(fragments, p.Text)
			}
		}
		joined := strings.Join(fragments, "\n")
		if strings.TrimSpace(joined) != "" {
			return joined, true
		}
	}
	return "", false
}
