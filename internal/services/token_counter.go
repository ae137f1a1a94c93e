package services

// EstimateTokens returns an approximate token count using the ~4 chars/token
// heuristic. Deliberately not a real tokenizer: downstream usage dashboards
// were calibrated against this approximation.
func EstimateTokens(text string) int64 {
	if len(text) == 0 {
		return 0
	}
	return int64((len(text) + 3) / 4)
}
