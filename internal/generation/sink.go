package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/abbrev/internal/dictionary"
	"github.com/at-ishikawa/abbrev/internal/similarity"
)

// Sink persists confirmed entries to the dictionary and the similarity index.
type Sink struct {
	oracle     Oracle
	repository dictionary.Repository
	index      similarity.Index
}

func NewSink(oracle Oracle, repository dictionary.Repository, index similarity.Index) *Sink {
	return &Sink{
		oracle:     oracle,
		repository: repository,
		index:      index,
	}
}

// Persist re-checks both unique fields right before inserting, because another session
// may have stored them since they were checked. The unique constraints of the store are
// the final guard and a violation is reported as ErrTakenConcurrently.
//
// An error wrapping ErrIndexNotUpdated means the entry was saved.
func (sink *Sink) Persist(ctx context.Context, entry dictionary.Entry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("entry.Validate() > %w", err)
	}

	for _, check := range []struct {
		field Field
		value string
	}{
		{field: FieldKeyword, value: entry.Keyword},
		{field: FieldAbbreviation, value: entry.Abbreviation},
	} {
		exists, err := sink.oracle.Exists(ctx, check.field, check.value)
		if err != nil {
			return fmt.Errorf("oracle.Exists(%s) > %w", check.field, err)
		}
		if exists {
			return fmt.Errorf("%w: %s %q already exists", ErrTakenConcurrently, check.field, check.value)
		}
	}

	if err := sink.repository.Insert(ctx, entry); err != nil {
		if errors.Is(err, dictionary.ErrDuplicateKey) {
			return fmt.Errorf("repository.Insert() > %w: %w", ErrTakenConcurrently, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("repository.Insert() > %w: %w", ErrStoreUnavailable, err)
	}
	slog.Default().Info("entry saved",
		"keyword", entry.Keyword,
		"abbreviation", entry.Abbreviation)

	if err := sink.index.Add(ctx, entry); err != nil {
		return fmt.Errorf("index.Add(%s) > %w: %w", entry.Keyword, ErrIndexNotUpdated, err)
	}
	return nil
}
