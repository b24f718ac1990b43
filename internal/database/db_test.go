package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/abbrev/internal/config"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name       string
		cfg        func(t *testing.T) config.DatabaseConfig
		wantDriver string
		wantErr    bool
	}{
		{
			name: "creates mysql connection with valid config",
			cfg: func(*testing.T) config.DatabaseConfig {
				return config.DatabaseConfig{
					Driver:   config.DriverMySQL,
					Host:     "localhost",
					Port:     3306,
					Database: "testdb",
					Username: "testuser",
					Password: "testpass",
				}
			},
			wantDriver: "mysql",
		},
		{
			name: "creates mysql connection with pool settings",
			cfg: func(*testing.T) config.DatabaseConfig {
				return config.DatabaseConfig{
					Driver:          config.DriverMySQL,
					Host:            "db.example.com",
					Port:            3307,
					Database:        "abbrev",
					Username:        "admin",
					MaxOpenConns:    25,
					MaxIdleConns:    5,
					ConnMaxLifetime: 300,
				}
			},
			wantDriver: "mysql",
		},
		{
			name: "creates sqlite database file in a nested directory",
			cfg: func(t *testing.T) config.DatabaseConfig {
				return config.DatabaseConfig{
					Driver: config.DriverSQLite,
					Path:   filepath.Join(t.TempDir(), "nested", "dictionary.db"),
				}
			},
			wantDriver: "sqlite",
		},
		{
			name: "unsupported driver",
			cfg: func(*testing.T) config.DatabaseConfig {
				return config.DatabaseConfig{Driver: "postgres"}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Open(tt.cfg(t))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			defer got.Close()

			assert.Equal(t, tt.wantDriver, got.DriverName())
		})
	}
}

func openMemoryDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)

	require.NoError(t, Migrate(ctx, db))
	// Re-running must be a no-op
	require.NoError(t, Migrate(ctx, db))

	for _, table := range []string{"entries", "entry_embeddings"} {
		var name string
		err := db.GetContext(ctx, &name, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_EnforcesUniqueness(t *testing.T) {
	ctx := context.Background()
	db := openMemoryDB(t)
	require.NoError(t, Migrate(ctx, db))

	_, err := db.ExecContext(ctx, `INSERT INTO entries (keyword, abbreviation) VALUES (?, ?)`, "Closing", "Clsg")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO entries (keyword, abbreviation) VALUES (?, ?)`, "Closing", "Clsng")
	assert.Error(t, err, "duplicate keyword")

	_, err = db.ExecContext(ctx, `INSERT INTO entries (keyword, abbreviation) VALUES (?, ?)`, "Closure", "Clsg")
	assert.Error(t, err, "duplicate abbreviation")
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("CREATE TABLE a (id INT);\n\n  CREATE TABLE b (id INT);\n")
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)"}, got)
}
