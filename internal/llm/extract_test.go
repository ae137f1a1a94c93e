package llm

import (
	"encoding/json"
	"testing"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{
			name:     "direct text field",
			raw:      `{"text": "hello"}`,
			expected: "hello",
			ok:       true,
		},
		{
			name:     "nested output text",
			raw:      `{"output": {"text": "nested hello"}}`,
			expected: "nested hello",
			ok:       true,
		},
		{
			name:     "chat completion shape",
			raw:      `{"choices": [{"message": {"role": "assistant", "content": "completion text"}}]}`,
			expected: "completion text",
			ok:       true,
		},
		{
			name:     "candidates parts joined with newline",
			raw:      `{"candidates": [{"content": {"parts": [{"text": "a"}, {"text": "b"}]}}]}`,
			expected: "a\nb",
			ok:       true,
		},
		{
			name:     "candidates nested under output",
			raw:      `{"output": {"candidates": [{"content": {"parts": [{"text": "deep"}]}}]}}`,
			expected: "deep",
			ok:       true,
		},
		{
			name:     "second candidate wins when first is blank",
			raw:      `{"candidates": [{"content": {"parts": [{"text": "  "}]}}, {"content": {"parts": [{"text": "second"}]}}]}`,
			expected: "second",
			ok:       true,
		},
		{
			name:     "direct text preferred over choices",
			raw:      `{"text": "direct", "choices": [{"message": {"content": "ignored"}}]}`,
			expected: "direct",
			ok:       true,
		},
		{
			name: "empty object",
			raw:  `{}`,
			ok:   false,
		},
		{
			name: "blank text field",
			raw:  `{"text": "   "}`,
			ok:   false,
		},
		{
			name: "empty choices",
			raw:  `{"choices": []}`,
			ok:   false,
		},
		{
			name: "blank completion content",
			raw:  `{"choices": [{"message": {"content": ""}}]}`,
			ok:   false,
		},
		{
			name: "unrecognized shape",
			raw:  `{"result": "something"}`,
			ok:   false,
		},
		{
			name: "not json",
			raw:  `garbage`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractText(json.RawMessage(tt.raw))
			if ok != tt.ok {
				t.Fatalf("ExtractText(%s) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("ExtractText(%s) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestExtractText_Empty(t *testing.T) {
	if _, ok := ExtractText(nil); ok {
		t.Error("Expected no match for nil payload")
	}
	if _, ok := ExtractText(json.RawMessage("")); ok {
		t.Error("Expected no match for empty payload")
	}
}
