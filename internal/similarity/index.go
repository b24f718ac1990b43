// Package similarity retrieves dictionary entries that resemble a keyword.
package similarity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/abbrev/internal/dictionary"
	"github.com/at-ishikawa/abbrev/internal/inference"
)

//go:generate mockgen -source=index.go -destination=../mocks/similarity/mock_index.go -package=mock_similarity

// Match is an indexed entry and its similarity to the query.
type Match struct {
	Entry dictionary.Entry
	Score float64
}

// Index is a read/append similarity index over dictionary entries.
type Index interface {
	Search(ctx context.Context, text string, limit int) ([]Match, error)
	Add(ctx context.Context, entry dictionary.Entry) error
}

// DBIndex stores entry embeddings next to the dictionary and ranks them in memory.
type DBIndex struct {
	db       *sqlx.DB
	embedder inference.Embedder
}

var _ Index = (*DBIndex)(nil)

func NewDBIndex(db *sqlx.DB, embedder inference.Embedder) *DBIndex {
	return &DBIndex{db: db, embedder: embedder}
}

type embeddingRow struct {
	Keyword      string `db:"keyword"`
	Abbreviation string `db:"abbreviation"`
	Description  string `db:"description"`
	Vector       string `db:"vector"`
}

// Search returns up to limit entries ordered by descending similarity to text.
func (index *DBIndex) Search(ctx context.Context, text string, limit int) ([]Match, error) {
	var rows []embeddingRow
	if err := index.db.SelectContext(ctx, &rows,
		`SELECT e.keyword, e.abbreviation, COALESCE(e.description, '') AS description, v.vector
		FROM entry_embeddings v
		JOIN entries e ON e.keyword = v.keyword
		WHERE v.model = ?
		ORDER BY e.keyword`,
		index.embedder.EmbeddingModel(),
	); err != nil {
		return nil, fmt.Errorf("db.SelectContext(entry_embeddings) > %w", err)
	}
	if len(rows) == 0 || limit <= 0 {
		return nil, nil
	}

	vectors, err := index.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedder.Embed(%s) > %w", text, err)
	}
	query := vectors[0]

	matches := make([]Match, 0, len(rows))
	for _, row := range rows {
		var vector []float32
		if err := json.Unmarshal([]byte(row.Vector), &vector); err != nil {
			return nil, fmt.Errorf("json.Unmarshal(vector of %s) > %w", row.Keyword, err)
		}
		score, err := CosineSimilarity(query, vector)
		if err != nil {
			slog.Default().Warn("skip embedding with a different dimension",
				"keyword", row.Keyword,
				"error", err)
			continue
		}
		matches = append(matches, Match{
			Entry: dictionary.Entry{
				Keyword:      row.Keyword,
				Abbreviation: row.Abbreviation,
				Description:  row.Description,
			},
			Score: score,
		})
	}
	return topK(matches, limit), nil
}

// Add embeds an entry and stores its vector, replacing any previous vector for the keyword.
func (index *DBIndex) Add(ctx context.Context, entry dictionary.Entry) error {
	vectors, err := index.embedder.Embed(ctx, []string{entry.EmbedText()})
	if err != nil {
		return fmt.Errorf("embedder.Embed(%s) > %w", entry.Keyword, err)
	}
	return index.store(ctx, []dictionary.Entry{entry}, vectors)
}

func (index *DBIndex) store(ctx context.Context, entries []dictionary.Entry, vectors [][]float32) error {
	if len(entries) != len(vectors) {
		return fmt.Errorf("got %d vectors for %d entries", len(vectors), len(entries))
	}

	tx, err := index.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	model := index.embedder.EmbeddingModel()
	for i, entry := range entries {
		encoded, err := json.Marshal(vectors[i])
		if err != nil {
			return fmt.Errorf("json.Marshal(vector of %s) > %w", entry.Keyword, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM entry_embeddings WHERE keyword = ?", entry.Keyword); err != nil {
			return fmt.Errorf("tx.ExecContext(delete embedding %s) > %w", entry.Keyword, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO entry_embeddings (keyword, model, vector) VALUES (?, ?, ?)",
			entry.Keyword, model, string(encoded),
		); err != nil {
			return fmt.Errorf("tx.ExecContext(insert embedding %s) > %w", entry.Keyword, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}
	return nil
}
