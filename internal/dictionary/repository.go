package dictionary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:generate mockgen -source=repository.go -destination=../mocks/dictionary/mock_repository.go -package=mock_dictionary

// Repository defines operations on the persisted dictionary.
// Keyword and abbreviation uniqueness is enforced by the storage layer.
type Repository interface {
	ExistsByKeyword(ctx context.Context, keyword string) (bool, error)
	ExistsByAbbreviation(ctx context.Context, abbreviation string) (bool, error)
	// Insert returns an error wrapping ErrDuplicateKey when either unique field is already taken.
	Insert(ctx context.Context, entry Entry) error
	BatchInsert(ctx context.Context, entries []Entry) error
	FindAll(ctx context.Context) ([]Entry, error)
	Count(ctx context.Context) (int, error)
}

// DBRepository implements Repository on SQLite or MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// ExistsByKeyword reports whether the exact keyword is stored.
func (r *DBRepository) ExistsByKeyword(ctx context.Context, keyword string) (bool, error) {
	return r.exists(ctx, "SELECT 1 FROM entries WHERE keyword = ? LIMIT 1", keyword)
}

// ExistsByAbbreviation reports whether the exact abbreviation is stored.
func (r *DBRepository) ExistsByAbbreviation(ctx context.Context, abbreviation string) (bool, error) {
	return r.exists(ctx, "SELECT 1 FROM entries WHERE abbreviation = ? LIMIT 1", abbreviation)
}

func (r *DBRepository) exists(ctx context.Context, query string, value string) (bool, error) {
	var found int
	err := r.db.GetContext(ctx, &found, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("db.GetContext(%s) > %w", value, err)
	}
	return true, nil
}

// Insert stores a new entry.
func (r *DBRepository) Insert(ctx context.Context, entry Entry) error {
	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO entries (keyword, abbreviation, description) VALUES (?, ?, ?)",
		entry.Keyword, entry.Abbreviation, nullableString(entry.Description),
	); err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("insert entry %s (%s) > %w: %v", entry.Keyword, entry.Abbreviation, ErrDuplicateKey, err)
		}
		return fmt.Errorf("db.ExecContext(insert entry) > %w", err)
	}
	return nil
}

// BatchInsert stores all entries in a single transaction. Nothing is stored if any insert fails.
func (r *DBRepository) BatchInsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PreparexContext(ctx, "INSERT INTO entries (keyword, abbreviation, description) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("tx.PreparexContext() > %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx, entry.Keyword, entry.Abbreviation, nullableString(entry.Description)); err != nil {
			if isDuplicateKeyError(err) {
				return fmt.Errorf("insert entry %s (%s) > %w: %v", entry.Keyword, entry.Abbreviation, ErrDuplicateKey, err)
			}
			return fmt.Errorf("stmt.ExecContext(%s) > %w", entry.Keyword, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}
	return nil
}

// FindAll returns all entries ordered by keyword.
func (r *DBRepository) FindAll(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := r.db.SelectContext(ctx, &entries,
		"SELECT keyword, abbreviation, COALESCE(description, '') AS description FROM entries ORDER BY keyword",
	); err != nil {
		return nil, fmt.Errorf("db.SelectContext(entries) > %w", err)
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (r *DBRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM entries"); err != nil {
		return 0, fmt.Errorf("db.GetContext(count entries) > %w", err)
	}
	return count, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

const mysqlErrDuplicateEntry = 1062

func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrDuplicateEntry
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// Extended result codes are not always reported
			return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}
