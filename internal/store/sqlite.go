package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/satriowb/syncpad/internal/domain"
)

// SQLiteStore is the embedded persistent DocumentStore backend.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// bootstraps the schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Create allocates a document with a fresh id.
func (s *SQLiteStore) Create(ctx context.Context, title string) (domain.Document, error) {
	doc := domain.Document{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   "",
		UpdatedAt: time.Now(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO documents (id, title, content, updated_at) VALUES (?, ?, ?, ?)",
		doc.ID, doc.Title, doc.Content, doc.UpdatedAt.UnixNano())
	if err != nil {
		return domain.Document{}, fmt.Errorf("insert document: %w", err)
	}
	return doc, nil
}

// Get fetches a document by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.Document, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, content, updated_at FROM documents WHERE id = ?", id)
	return scanDocument(row)
}

// Update applies the non-nil fields inside a transaction so concurrent
// writers serialize in store order, and stamps UpdatedAt.
func (s *SQLiteStore) Update(ctx context.Context, id string, f Fields) (domain.Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Document{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT id, title, content, updated_at FROM documents WHERE id = ?", id)
	doc, err := scanDocument(row)
	if err != nil {
		return domain.Document{}, err
	}

	if f.Title != nil {
		doc.Title = *f.Title
	}
	if f.Content != nil {
		doc.Content = *f.Content
	}
	doc.UpdatedAt = stamp(doc.UpdatedAt)

	_, err = tx.ExecContext(ctx,
		"UPDATE documents SET title = ?, content = ?, updated_at = ? WHERE id = ?",
		doc.Title, doc.Content, doc.UpdatedAt.UnixNano(), doc.ID)
	if err != nil {
		return domain.Document{}, fmt.Errorf("update document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Document{}, fmt.Errorf("commit update: %w", err)
	}
	return doc, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (domain.Document, error) {
	var doc domain.Document
	var updatedAt int64
	err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Document{}, ErrNotFound
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("scan document: %w", err)
	}
	doc.UpdatedAt = time.Unix(0, updatedAt)
	return doc, nil
}
