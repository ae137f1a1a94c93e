package llm

import "testing"

func TestClampMaxTokens(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		expected  int
	}{
		{"zero uses default", 0, DefaultMaxTokens},
		{"negative uses default", -100, DefaultMaxTokens},
		{"in range unchanged", 2000, 2000},
		{"minimum valid", 1, 1},
		{"at ceiling", 4096, 4096},
		{"above ceiling clamped", 100000, MaxTokensCeiling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampMaxTokens(tt.requested)
			if got != tt.expected {
				t.Errorf("ClampMaxTokens(%d) = %d, want %d", tt.requested, got, tt.expected)
			}
		})
	}
}

func TestResolveConfig_OpenAIOmitsTopP(t *testing.T) {
	cfg := ResolveConfig("openai", "gpt-4o-mini", 0.7, 1024, 0.9)

	if cfg.TopP != nil {
		t.Errorf("Expected TopP omitted for openai, got %v", *cfg.TopP)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Expected temperature 0.7, got %v", cfg.Temperature)
	}
	if cfg.MaxTokens != 1024 {
		t.Errorf("Expected maxTokens 1024, got %d", cfg.MaxTokens)
	}
}

func TestResolveConfig_GPT5MiniForcesTemperature(t *testing.T) {
	cfg := ResolveConfig("openai", "gpt-5-mini", 0.2, 512, 0.9)

	if cfg.Temperature != 1.0 {
		t.Errorf("Expected forced temperature 1.0 for gpt-5-mini, got %v", cfg.Temperature)
	}
	if cfg.TopP != nil {
		t.Errorf("Expected TopP omitted for gpt-5-mini, got %v", *cfg.TopP)
	}
}

func TestResolveConfig_GooglePassesThrough(t *testing.T) {
	cfg := ResolveConfig("google", "gemini-2.0-flash", 0.4, 2048, 0.95)

	if cfg.Temperature != 0.4 {
		t.Errorf("Expected temperature 0.4, got %v", cfg.Temperature)
	}
	if cfg.TopP == nil {
		t.Fatal("Expected TopP set for google provider")
	}
	if *cfg.TopP != 0.95 {
		t.Errorf("Expected TopP 0.95, got %v", *cfg.TopP)
	}
}

func TestLookupQuirks_ModelOverridesProvider(t *testing.T) {
	q := LookupQuirks("openai", "gpt-5-mini")
	if q.ForceTemperature == nil {
		t.Fatal("Expected ForceTemperature for gpt-5-mini")
	}

	q = LookupQuirks("openai", "gpt-4o")
	if q.ForceTemperature != nil {
		t.Error("Expected no ForceTemperature for gpt-4o")
	}
	if !q.OmitTopP {
		t.Error("Expected OmitTopP for openai provider")
	}

	q = LookupQuirks("google", "gemini-2.0-flash")
	if q.OmitTopP || q.ForceTemperature != nil {
		t.Error("Expected no quirks for google models")
	}
}
