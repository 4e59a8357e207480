package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/baxromumarov/job-extractor/internal/learning"
)

//go:embed schema.sql
var embeddedSchema string

// Store keeps the learning document in a single Postgres row.
type Store struct {
	db *sql.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RunMigrations applies the schema at schemaPath, or the embedded schema when the path is empty.
func (s *Store) RunMigrations(ctx context.Context, schemaPath string) error {
	content := embeddedSchema
	if schemaPath != "" {
		raw, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("failed to read schema file: %w", err)
		}
		content = string(raw)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, content); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Load implements learning.Persister. An empty table yields an empty document; a row that
// fails validation is reported as corrupt and left untouched.
func (s *Store) Load(ctx context.Context) (learning.Document, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM learning_documents WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return learning.NewDocument(), nil
	}
	if err != nil {
		return learning.NewDocument(), fmt.Errorf("%w: load: %v", learning.ErrPersistence, err)
	}
	doc, err := learning.Decode(body)
	if err != nil {
		return learning.NewDocument(), err
	}
	return doc, nil
}

// Save implements learning.Persister.
func (s *Store) Save(ctx context.Context, doc learning.Document) error {
	body, err := learning.Encode(doc)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", learning.ErrPersistence, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO learning_documents (id, body, updated_at)
VALUES (1, $1, NOW())
ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
`, string(body))
	if err != nil {
		return fmt.Errorf("%w: save: %v", learning.ErrPersistence, err)
	}
	return nil
}

// Reset removes the stored document.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM learning_documents`); err != nil {
		return fmt.Errorf("%w: reset: %v", learning.ErrPersistence, err)
	}
	return nil
}
