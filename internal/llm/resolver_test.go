package llm

import "testing"

func TestResolveModelID(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		model    string
		expected string
	}{
		{"openai namespaced", "openai", "gpt-4o-mini", "openai/gpt-4o-mini"},
		{"google namespaced", "google", "gemini-2.0-flash", "googleai/gemini-2.0-flash"},
		{"provider case insensitive", "OpenAI", "gpt-4o", "openai/gpt-4o"},
		{"google case insensitive", "Google", "gemini-1.5-pro", "googleai/gemini-1.5-pro"},
		{"unknown provider passes through", "anthropic", "claude-3-haiku", "claude-3-haiku"},
		{"empty provider passes through", "", "local-model", "local-model"},
		{"already namespaced custom model", "custom", "openai/gpt-4o", "openai/gpt-4o"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveModelID(tt.provider, tt.model)
			if got != tt.expected {
				t.Errorf("ResolveModelID(%q, %q) = %q, want %q", tt.provider, tt.model, got, tt.expected)
			}
		})
	}
}
