package utils

// CountTokens estimates the number of tokens in text using the rough
// 1 token ~= 4 characters heuristic. Only used for diagnostics.
func CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := len([]rune(text)) / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}
