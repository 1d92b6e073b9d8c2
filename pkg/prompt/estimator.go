package prompt

import "github.com/pkoukk/tiktoken-go"

// charsToTokens converts a character count to an estimated token count using
// the 1-token-per-4-characters heuristic.
func charsToTokens(chars int) int {
	return (chars + 3) / 4 // round up
}

// EstimateTokens estimates how many tokens text costs for model. Models with
// a published tiktoken encoding are counted exactly; everything else falls
// back to the character heuristic.
func EstimateTokens(text, model string) int {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return charsToTokens(len(text))
	}

	return len(enc.Encode(text, nil, nil))
}
