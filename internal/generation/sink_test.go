package generation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/abbrev/internal/config"
	"github.com/at-ishikawa/abbrev/internal/database"
	"github.com/at-ishikawa/abbrev/internal/dictionary"
	"github.com/at-ishikawa/abbrev/internal/generation"
	mock_dictionary "github.com/at-ishikawa/abbrev/internal/mocks/dictionary"
	mock_generation "github.com/at-ishikawa/abbrev/internal/mocks/generation"
	mock_similarity "github.com/at-ishikawa/abbrev/internal/mocks/similarity"
)

func TestSink_Persist(t *testing.T) {
	entry := dictionary.Entry{Keyword: "Closing", Abbreviation: "Clsg", Description: "The act of closing."}

	type mocks struct {
		oracle     *mock_generation.MockOracle
		repository *mock_dictionary.MockRepository
		index      *mock_similarity.MockIndex
	}

	tests := []struct {
		name       string
		entry      dictionary.Entry
		setup      func(m mocks)
		wantErrIs  []error
		wantNotErr error
	}{
		{
			name:  "saves to the dictionary and the index",
			entry: entry,
			setup: func(m mocks) {
				gomock.InOrder(
					m.oracle.EXPECT().Exists(gomock.Any(), generation.FieldKeyword, "Closing").Return(false, nil),
					m.oracle.EXPECT().Exists(gomock.Any(), generation.FieldAbbreviation, "Clsg").Return(false, nil),
					m.repository.EXPECT().Insert(gomock.Any(), entry).Return(nil),
					m.index.EXPECT().Add(gomock.Any(), entry).Return(nil),
				)
			},
		},
		{
			name:  "keyword stored by another session",
			entry: entry,
			setup: func(m mocks) {
				m.oracle.EXPECT().Exists(gomock.Any(), generation.FieldKeyword, "Closing").Return(true, nil)
			},
			wantErrIs: []error{generation.ErrTakenConcurrently},
		},
		{
			name:  "abbreviation stored by another session",
			entry: entry,
			setup: func(m mocks) {
				m.oracle.EXPECT().Exists(gomock.Any(), generation.FieldKeyword, "Closing").Return(false, nil)
				m.oracle.EXPECT().Exists(gomock.Any(), generation.FieldAbbreviation, "Clsg").Return(true, nil)
			},
			wantErrIs: []error{generation.ErrTakenConcurrently},
		},
		{
			name:  "unique constraint fires after the re-check",
			entry: entry,
			setup: func(m mocks) {
				m.oracle.EXPECT().Exists(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
				m.repository.EXPECT().Insert(gomock.Any(), entry).
					Return(fmt.Errorf("insert entry Closing (Clsg) > %w", dictionary.ErrDuplicateKey))
			},
			wantErrIs: []error{generation.ErrTakenConcurrently, dictionary.ErrDuplicateKey},
		},
		{
			name:  "insert fails",
			entry: entry,
			setup: func(m mocks) {
				m.oracle.EXPECT().Exists(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
				m.repository.EXPECT().Insert(gomock.Any(), entry).Return(errors.New("i/o timeout"))
			},
			wantErrIs:  []error{generation.ErrStoreUnavailable},
			wantNotErr: generation.ErrTakenConcurrently,
		},
		{
			name:  "store unavailable on the re-check",
			entry: entry,
			setup: func(m mocks) {
				m.oracle.EXPECT().Exists(gomock.Any(), generation.FieldKeyword, "Closing").
					Return(false, fmt.Errorf("repository.Exists() > %w", generation.ErrStoreUnavailable))
			},
			wantErrIs: []error{generation.ErrStoreUnavailable},
		},
		{
			name:  "index failure keeps the entry",
			entry: entry,
			setup: func(m mocks) {
				m.oracle.EXPECT().Exists(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
				m.repository.EXPECT().Insert(gomock.Any(), entry).Return(nil)
				m.index.EXPECT().Add(gomock.Any(), entry).Return(errors.New("response error 503"))
			},
			wantErrIs: []error{generation.ErrIndexNotUpdated},
		},
		{
			name:      "invalid casing is rejected before any lookup",
			entry:     dictionary.Entry{Keyword: "Closing", Abbreviation: "CLSG"},
			setup:     func(m mocks) {},
			wantErrIs: []error{dictionary.ErrInvalidEntry},
		},
		{
			name:      "missing abbreviation",
			entry:     dictionary.Entry{Keyword: "Closing"},
			setup:     func(m mocks) {},
			wantErrIs: []error{dictionary.ErrInvalidEntry},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := mocks{
				oracle:     mock_generation.NewMockOracle(ctrl),
				repository: mock_dictionary.NewMockRepository(ctrl),
				index:      mock_similarity.NewMockIndex(ctrl),
			}
			tt.setup(m)

			err := generation.NewSink(m.oracle, m.repository, m.index).Persist(context.Background(), tt.entry)
			if len(tt.wantErrIs) == 0 {
				require.NoError(t, err)
				return
			}
			for _, want := range tt.wantErrIs {
				assert.ErrorIs(t, err, want)
			}
			if tt.wantNotErr != nil {
				assert.NotErrorIs(t, err, tt.wantNotErr)
			}
		})
	}
}

// staleOracle answers as if it ran before another session inserted the value.
type staleOracle struct{}

func (staleOracle) Exists(context.Context, generation.Field, string) (bool, error) {
	return false, nil
}

func TestSink_Persist_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db))

	ctrl := gomock.NewController(t)
	index := mock_similarity.NewMockIndex(ctrl)
	index.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	repository := dictionary.NewDBRepository(db)
	sink := generation.NewSink(generation.NewStoreOracle(repository), repository, index)
	require.NoError(t, sink.Persist(ctx, dictionary.Entry{Keyword: "Matching", Abbreviation: "Mtch"}))

	// Another session found the same abbreviation before the first one was saved
	err = sink.Persist(ctx, dictionary.Entry{Keyword: "Matched", Abbreviation: "Mtch"})
	assert.ErrorIs(t, err, generation.ErrTakenConcurrently)

	// The unique constraint catches what a stale check missed
	racingSink := generation.NewSink(staleOracle{}, repository, index)
	err = racingSink.Persist(ctx, dictionary.Entry{Keyword: "Matched", Abbreviation: "Mtch"})
	assert.ErrorIs(t, err, generation.ErrTakenConcurrently)
	assert.ErrorIs(t, err, dictionary.ErrDuplicateKey)

	count, err := repository.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
