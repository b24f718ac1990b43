package similarity

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/at-ishikawa/abbrev/internal/dictionary"
)

const defaultBatchSize = 32

// Indexer backfills embeddings for entries that are not indexed yet.
type Indexer struct {
	index       *DBIndex
	concurrency int
	batchSize   int
}

func NewIndexer(index *DBIndex, concurrency int) *Indexer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Indexer{
		index:       index,
		concurrency: concurrency,
		batchSize:   defaultBatchSize,
	}
}

// EnsureIndexed embeds every entry without a vector for the current embedding model
// and returns how many entries were indexed.
func (indexer *Indexer) EnsureIndexed(ctx context.Context) (int, error) {
	var entries []dictionary.Entry
	if err := indexer.index.db.SelectContext(ctx, &entries,
		`SELECT e.keyword, e.abbreviation, COALESCE(e.description, '') AS description
		FROM entries e
		LEFT JOIN entry_embeddings v ON v.keyword = e.keyword AND v.model = ?
		WHERE v.keyword IS NULL
		ORDER BY e.keyword`,
		indexer.index.embedder.EmbeddingModel(),
	); err != nil {
		return 0, fmt.Errorf("db.SelectContext(unindexed entries) > %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	slog.Default().Info("indexing dictionary entries",
		"count", len(entries),
		"model", indexer.index.embedder.EmbeddingModel())

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(indexer.concurrency)
	for start := 0; start < len(entries); start += indexer.batchSize {
		batch := entries[start:min(start+indexer.batchSize, len(entries))]
		eg.Go(func() error {
			texts := make([]string, len(batch))
			for i, entry := range batch {
				texts[i] = entry.EmbedText()
			}
			vectors, err := indexer.index.embedder.Embed(egCtx, texts)
			if err != nil {
				return fmt.Errorf("embedder.Embed(batch from %s) > %w", batch[0].Keyword, err)
			}
			return indexer.index.store(egCtx, batch, vectors)
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Rebuild drops every stored vector and indexes all entries again.
func (indexer *Indexer) Rebuild(ctx context.Context) (int, error) {
	if _, err := indexer.index.db.ExecContext(ctx, "DELETE FROM entry_embeddings"); err != nil {
		return 0, fmt.Errorf("db.ExecContext(delete entry_embeddings) > %w", err)
	}
	return indexer.EnsureIndexed(ctx)
}
