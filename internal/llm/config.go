package llm

// Token ceiling applied to every provider call
const (
	DefaultMaxTokens = 512
	MaxTokensCeiling = 4096
)

// GenerationConfig is the resolved, provider-ready sampling configuration.
// TopP is a pointer so it can be omitted entirely for providers that reject
// the parameter.
type GenerationConfig struct {
	Temperature float64  `json:"temperature"`
	MaxTokens   int      `json:"maxOutputTokens"`
	TopP        *float64 `json:"topP,omitempty"`
}

// ClampMaxTokens bounds a requested token limit to [1, MaxTokensCeiling],
// substituting the default when the request is zero or negative.
func ClampMaxTokens(requested int) int {
	if requested <= 0 {
		requested = DefaultMaxTokens
	}
	if requested > MaxTokensCeiling {
		return MaxTokensCeiling
	}
	return requested
}

// ResolveConfig builds the effective generation config for a (provider,
// model) pair: clamps the token limit and applies the provider quirk table
// to temperature and nucleus sampling.
func ResolveConfig(provider, model string, temperature float64, maxTokens int, topP float64) GenerationConfig {
	quirks := LookupQuirks(provider, model)

	cfg := GenerationConfig{
		Temperature: temperature,
		MaxTokens:   ClampMaxTokens(maxTokens),
	}
	if quirks.ForceTemperature != nil {
		cfg.Temperature = *quirks.ForceTemperature
	}
	if !quirks.OmitTopP {
		p := topP
		cfg.TopP = &p
	}
	return cfg
}
