package openai

import (
	"fmt"
	"strings"

	"github.com/at-ishikawa/abbrev/internal/inference"
)

const abbreviationSystemPrompt = `You create standardized abbreviations and one-sentence descriptions for technical keywords.
Follow the style of the existing dictionary entries you are given.

CASING RULE:
Both keywords and abbreviations start with one uppercase letter and contain no other uppercase letters.
For example, "ESC" and "esc" are wrong; "Esc" is correct.

ABBREVIATION PREFERENCES:
1. A word ending with "-ing" ends its abbreviation with "g". Example: "Closing" -> "Clsg"
2. A word ending with "-ed" ends its abbreviation with "d". Example: "Estimated" -> "Estimd"
3. A word ending with "-ion" ends its abbreviation with "n". Example: "Estimation" -> "Estimn"
4. A word ending with "-tor" or "-er" ends its abbreviation with "r". Example: "Estimator" -> "Estimr"
5. Remove vowels from the middle of words to shorten them.
6. Keep the consonants that make the word recognizable.
7. Prefer patterns already used by the example entries.

The description is exactly one concise sentence explaining the keyword.

OUTPUT FORMAT (JSON only):
{
  "abbreviation": "<the abbreviation>",
  "description": "<one sentence>",
  "explanation": "<why you chose it, naming the example entries and suffix rules that influenced you>"
}
Do NOT include any text outside the JSON.`

func buildAbbreviationUserPrompt(params inference.SuggestAbbreviationRequest) string {
	var sb strings.Builder

	sb.WriteString("Existing dictionary entries similar to the keyword:\n")
	if len(params.Examples) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, example := range params.Examples {
		fmt.Fprintf(&sb, "- Keyword: %s | Abbreviation: %s", example.Keyword, example.Abbreviation)
		if example.Description != "" {
			fmt.Fprintf(&sb, " | Description: %s", example.Description)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nKeyword: %s\n", params.Keyword)

	if len(params.Avoid) > 0 {
		sb.WriteString("\nIMPORTANT: The following abbreviations are already taken or were rejected. ")
		sb.WriteString("You MUST NOT answer any of them, and your answer must be different from every one of them:\n")
		for _, abbreviation := range params.Avoid {
			fmt.Fprintf(&sb, "- %s\n", abbreviation)
		}
	}

	sb.WriteString("\nSuggest the abbreviation, description and explanation.")
	return sb.String()
}
