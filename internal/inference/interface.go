package inference

import (
	"context"
	"errors"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// ErrMalformedResponse is returned when the model answers without the required fields.
var ErrMalformedResponse = errors.New("malformed model response")

// Client interface defines the methods for AI inference operations
type Client interface {
	SuggestAbbreviation(ctx context.Context, params SuggestAbbreviationRequest) (SuggestAbbreviationResponse, error)
}

// Embedder turns texts into vectors for similarity search.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// EmbeddingModel identifies the vector space, so vectors of different models are never compared.
	EmbeddingModel() string
}

// Example is an existing dictionary entry shown to the model as a style reference
type Example struct {
	Keyword      string `json:"keyword"`
	Abbreviation string `json:"abbreviation"`
	Description  string `json:"description,omitempty"`
}

// SuggestAbbreviationRequest holds parameters for proposing an abbreviation for a keyword
type SuggestAbbreviationRequest struct {
	Keyword  string    `json:"keyword"`
	Examples []Example `json:"examples"`
	// Avoid lists abbreviations that are already taken or were rejected, oldest first
	Avoid []string `json:"avoid,omitempty"`
}

// SuggestAbbreviationResponse is one proposed abbreviation
type SuggestAbbreviationResponse struct {
	Abbreviation string `json:"abbreviation"`
	Description  string `json:"description"`
	Explanation  string `json:"explanation"`
}

const (
	DefaultMaxRetryAttempts = 3
)
