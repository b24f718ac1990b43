package generation

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/abbrev/internal/dictionary"
)

//go:generate mockgen -source=oracle.go -destination=../mocks/generation/mock_oracle.go -package=mock_generation

// Field selects which unique column of the dictionary is checked.
type Field int

const (
	FieldKeyword Field = iota
	FieldAbbreviation
)

func (f Field) String() string {
	switch f {
	case FieldKeyword:
		return "keyword"
	case FieldAbbreviation:
		return "abbreviation"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// ParseField converts "keyword" or "abbreviation" into a Field.
func ParseField(s string) (Field, error) {
	switch s {
	case "keyword":
		return FieldKeyword, nil
	case "abbreviation":
		return FieldAbbreviation, nil
	}
	return 0, fmt.Errorf("unknown field %q, must be keyword or abbreviation", s)
}

// Oracle answers whether a keyword or abbreviation is already in the dictionary.
// Implementations must not have side effects.
type Oracle interface {
	Exists(ctx context.Context, field Field, value string) (bool, error)
}

// StoreOracle answers from the persisted dictionary.
type StoreOracle struct {
	repository dictionary.Repository
}

var _ Oracle = (*StoreOracle)(nil)

func NewStoreOracle(repository dictionary.Repository) *StoreOracle {
	return &StoreOracle{repository: repository}
}

// Exists returns an error wrapping ErrStoreUnavailable when the store cannot answer,
// or the context error when ctx is done.
func (oracle *StoreOracle) Exists(ctx context.Context, field Field, value string) (bool, error) {
	var exists bool
	var err error
	switch field {
	case FieldKeyword:
		exists, err = oracle.repository.ExistsByKeyword(ctx, value)
	case FieldAbbreviation:
		exists, err = oracle.repository.ExistsByAbbreviation(ctx, value)
	default:
		return false, fmt.Errorf("unknown field %s", field)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, fmt.Errorf("repository.Exists(%s %s) > %w: %w", field, value, ErrStoreUnavailable, err)
	}
	return exists, nil
}
