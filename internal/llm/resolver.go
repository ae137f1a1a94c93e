// Package llm contains the provider plumbing for the generation pipeline:
// model-id resolution, per-provider quirk handling, the unified generation
// facade client, the native chat-completions fallback client, and the
// response-shape normalizer.
package llm

import "strings"

// Provider namespaces understood by the unified generation facade
const (
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"

	namespaceOpenAI = "openai"
	namespaceGoogle = "googleai"
)

// ResolveModelID maps a logical (provider, model) pair to the
// provider-qualified model identifier the facade expects. Unknown providers
// pass the model name through unchanged; it is either already namespaced
// or a custom deployment.
func ResolveModelID(provider, model string) string {
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		return namespaceOpenAI + "/" + model
	case ProviderGoogle:
		return namespaceGoogle + "/" + model
	default:
		return model
	}
}
