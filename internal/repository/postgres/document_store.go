package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kingdomOfIT/momentum/internal/domain"
	"github.com/kingdomOfIT/momentum/internal/repository"
)

// Ensure pgDocumentStore implements repository.DocumentStore.
var _ repository.DocumentStore = (*pgDocumentStore)(nil)

type pgDocumentStore struct {
	pool *pgxpool.Pool
}

// NewPostgresDocumentStore creates a new PostgreSQL-backed document store.
func NewPostgresDocumentStore(pool *pgxpool.Pool) repository.DocumentStore {
	return &pgDocumentStore{pool: pool}
}

func (r *pgDocumentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (document_id, text, created_at)
		VALUES ($1, $2, $3)`

	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, query, doc.DocumentID, doc.Text, now)
	if err != nil {
		return fmt.Errorf("postgres: save document: %w", err)
	}
	doc.CreatedAt = now
	return nil
}

func (r *pgDocumentStore) GetDocument(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	query := `
		SELECT document_id, text, created_at
		FROM documents
		WHERE document_id = $1`

	doc := &domain.Document{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&doc.DocumentID, &doc.Text, &doc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get document: %w", err)
	}
	return doc, nil
}

func (r *pgDocumentStore) GetSummary(ctx context.Context, id uuid.UUID) (string, bool, error) {
	query := `SELECT text FROM summaries WHERE document_id = $1`

	var text string
	err := r.pool.QueryRow(ctx, query, id).Scan(&text)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("postgres: get summary: %w", err)
	}
	return text, true, nil
}

func (r *pgDocumentStore) SaveSummary(ctx context.Context, id uuid.UUID, summary string) error {
	// Append-once in the success path; the upsert makes a re-run of a task
	// for the same document harmless.
	query := `
		INSERT INTO summaries (document_id, text, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (document_id) DO UPDATE SET text = EXCLUDED.text`

	_, err := r.pool.Exec(ctx, query, id, summary, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("postgres: save summary: %w", err)
	}
	return nil
}
