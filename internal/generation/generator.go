package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/at-ishikawa/abbrev/internal/inference"
	"github.com/at-ishikawa/abbrev/internal/similarity"
)

//go:generate mockgen -source=generator.go -destination=../mocks/generation/mock_generator.go -package=mock_generation

// Candidate is one proposed abbreviation that is not validated yet.
type Candidate struct {
	Abbreviation string
	Description  string
	Explanation  string
}

// Generator proposes a candidate for keyword that is none of avoid.
// It may return a different candidate for the same input on every call.
type Generator interface {
	Generate(ctx context.Context, keyword string, avoid []string) (Candidate, error)
}

// RAGGenerator retrieves similar dictionary entries as examples and asks the model for a candidate.
type RAGGenerator struct {
	index       similarity.Index
	client      inference.Client
	contextSize int
}

var _ Generator = (*RAGGenerator)(nil)

func NewRAGGenerator(index similarity.Index, client inference.Client, contextSize int) *RAGGenerator {
	return &RAGGenerator{
		index:       index,
		client:      client,
		contextSize: contextSize,
	}
}

// Generate returns an error wrapping ErrGenerationUnavailable or ErrMalformedCandidate on failure,
// or the context error when ctx is done.
func (generator *RAGGenerator) Generate(ctx context.Context, keyword string, avoid []string) (Candidate, error) {
	matches, err := generator.index.Search(ctx, keyword, generator.contextSize)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Candidate{}, ctxErr
		}
		return Candidate{}, fmt.Errorf("index.Search(%s) > %w: %w", keyword, ErrGenerationUnavailable, err)
	}

	examples := make([]inference.Example, 0, len(matches))
	for _, match := range matches {
		examples = append(examples, inference.Example{
			Keyword:      match.Entry.Keyword,
			Abbreviation: match.Entry.Abbreviation,
			Description:  match.Entry.Description,
		})
	}

	response, err := generator.client.SuggestAbbreviation(ctx, inference.SuggestAbbreviationRequest{
		Keyword:  keyword,
		Examples: examples,
		Avoid:    avoid,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Candidate{}, ctxErr
		}
		if errors.Is(err, inference.ErrMalformedResponse) {
			return Candidate{}, fmt.Errorf("client.SuggestAbbreviation(%s) > %w: %w", keyword, ErrMalformedCandidate, err)
		}
		return Candidate{}, fmt.Errorf("client.SuggestAbbreviation(%s) > %w: %w", keyword, ErrGenerationUnavailable, err)
	}

	candidate := Candidate{
		Abbreviation: strings.TrimSpace(response.Abbreviation),
		Description:  strings.TrimSpace(response.Description),
		Explanation:  strings.TrimSpace(response.Explanation),
	}
	if candidate.Abbreviation == "" {
		return Candidate{}, fmt.Errorf("%w: empty abbreviation for %s", ErrMalformedCandidate, keyword)
	}
	return candidate, nil
}
