package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/at-ishikawa/abbrev/internal/inference"
)

// parseSuggestion decodes the model's answer. An answer without an abbreviation is malformed.
func parseSuggestion(content string) (inference.SuggestAbbreviationResponse, error) {
	var decoded inference.SuggestAbbreviationResponse
	if err := json.NewDecoder(strings.NewReader(extractJSONObject(content))).Decode(&decoded); err != nil {
		return inference.SuggestAbbreviationResponse{}, fmt.Errorf("%w: json.Unmarshal(%s) > %v", inference.ErrMalformedResponse, content, err)
	}

	decoded.Abbreviation = strings.TrimSpace(decoded.Abbreviation)
	decoded.Description = strings.TrimSpace(decoded.Description)
	decoded.Explanation = strings.TrimSpace(decoded.Explanation)
	if decoded.Abbreviation == "" {
		return inference.SuggestAbbreviationResponse{}, fmt.Errorf("%w: missing abbreviation in %s", inference.ErrMalformedResponse, content)
	}
	return decoded, nil
}

// extractJSONObject returns the first complete JSON object in content, so answers
// wrapped in prose or markdown fences still decode.
func extractJSONObject(content string) string {
	firstBrace := -1
	braceCount := 0
	inString := false
	escapeNext := false

	for i, ch := range content {
		// Handle string escaping to avoid counting braces inside strings
		if escapeNext {
			escapeNext = false
			continue
		}
		if ch == '\\' && inString {
			escapeNext = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '{':
			if firstBrace == -1 {
				firstBrace = i
			}
			braceCount++
		case '}':
			if firstBrace == -1 {
				continue
			}
			braceCount--
			if braceCount == 0 {
				return content[firstBrace : i+1]
			}
		}
	}

	return content
}
