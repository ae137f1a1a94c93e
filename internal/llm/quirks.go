package llm

import "strings"

// Quirks captures provider-side parameter constraints consulted once at
// config-resolution time, instead of scattering string comparisons across
// call sites.
type Quirks struct {
	// ForceTemperature overrides the configured temperature when the model
	// rejects any value other than its default.
	ForceTemperature *float64
	// OmitTopP drops the nucleus-sampling parameter entirely; the OpenAI
	// completion endpoints reject it alongside temperature overrides.
	OmitTopP bool
}

type quirkKey struct {
	provider string
	model    string
}

// gpt-5-mini only accepts its default temperature of 1.
var gpt5MiniTemperature = 1.0

var modelQuirks = map[quirkKey]Quirks{
	{ProviderOpenAI, "gpt-5-mini"}: {ForceTemperature: &gpt5MiniTemperature, OmitTopP: true},
}

var providerQuirks = map[string]Quirks{
	ProviderOpenAI: {OmitTopP: true},
}

// LookupQuirks returns the parameter constraints for a (provider, model)
// pair. Model-specific entries take precedence over provider-wide ones.
func LookupQuirks(provider, model string) Quirks {
	p := strings.ToLower(provider)
	if q, ok := modelQuirks[quirkKey{p, model}]; ok {
		return q
	}
	if q, ok := providerQuirks[p]; ok {
		return q
	}
	return Quirks{}
}
