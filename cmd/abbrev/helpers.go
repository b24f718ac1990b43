package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/abbrev/internal/bootstrap"
	"github.com/at-ishikawa/abbrev/internal/config"
	"github.com/at-ishikawa/abbrev/internal/database"
	"github.com/at-ishikawa/abbrev/internal/dictionary"
	"github.com/at-ishikawa/abbrev/internal/generation"
	"github.com/at-ishikawa/abbrev/internal/inference/openai"
	"github.com/at-ishikawa/abbrev/internal/similarity"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

type dependencies struct {
	cfg        *config.Config
	db         *sqlx.DB
	repository *dictionary.DBRepository
	llm        *openai.Client
	index      *similarity.DBIndex
	indexer    *similarity.Indexer
	oracle     *generation.StoreOracle
	sink       *generation.Sink
}

// setupDependencies opens and migrates the dictionary, seeds it when it is empty,
// and registers everything that must be closed on app.
func setupDependencies(ctx context.Context, app *bootstrap.App) (*dependencies, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	app.AddShutdownHook(func(ctx context.Context) error {
		return db.Close()
	})
	if err := database.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("database.Migrate() > %w", err)
	}

	repository := dictionary.NewDBRepository(db)
	if _, err := seedIfEmpty(ctx, repository, cfg.Dictionary.SeedFile); err != nil {
		return nil, err
	}

	llm := openai.NewClient(
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		cfg.OpenAI.EmbeddingModel,
		cfg.OpenAI.MaxRetryAttempts,
	)
	app.AddShutdownHook(func(ctx context.Context) error {
		return llm.Close()
	})

	index := similarity.NewDBIndex(db, llm)
	oracle := generation.NewStoreOracle(repository)
	return &dependencies{
		cfg:        cfg,
		db:         db,
		repository: repository,
		llm:        llm,
		index:      index,
		indexer:    similarity.NewIndexer(index, cfg.Generation.IndexConcurrency),
		oracle:     oracle,
		sink:       generation.NewSink(oracle, repository, index),
	}, nil
}

// seedIfEmpty loads seedFile into the dictionary when no entry is stored yet,
// and returns the number of inserted entries.
func seedIfEmpty(ctx context.Context, repository dictionary.Repository, seedFile string) (int, error) {
	if seedFile == "" {
		return 0, nil
	}
	count, err := repository.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository.Count() > %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	entries, err := dictionary.LoadSeedFile(seedFile)
	if err != nil {
		return 0, fmt.Errorf("dictionary.LoadSeedFile() > %w", err)
	}
	if err := repository.BatchInsert(ctx, entries); err != nil {
		return 0, fmt.Errorf("repository.BatchInsert() > %w", err)
	}
	slog.Default().Info("seeded the dictionary",
		"file", seedFile,
		"count", len(entries))
	return len(entries), nil
}

// ensureIndexed embeds entries that have no vector yet. Without them the model gets fewer examples,
// so a failure is only logged.
func ensureIndexed(ctx context.Context, indexer *similarity.Indexer) {
	if _, err := indexer.EnsureIndexed(ctx); err != nil {
		slog.Default().Warn("failed to index the dictionary, run `abbrev reindex` later",
			"error", err)
	}
}
