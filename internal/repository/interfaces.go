package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kingdomOfIT/momentum/internal/domain"
)

// DocumentStore is the blob store for document and summary text.
// Each call is atomic for its single key; there are no cross-key
// transactions. Implementations must be safe for concurrent use.
type DocumentStore interface {
	// SaveDocument persists a new document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document's text by id.
	// Returns domain.ErrDocumentNotFound when the id is unknown.
	GetDocument(ctx context.Context, id uuid.UUID) (*domain.Document, error)

	// GetSummary retrieves the stored summary for a document, if any.
	// Returns ("", false, nil) when no summary exists yet.
	GetSummary(ctx context.Context, id uuid.UUID) (string, bool, error)

	// SaveSummary persists the summary text for a document.
	SaveSummary(ctx context.Context, id uuid.UUID, summary string) error
}

// TaskLedger is the TTL-backed document→task mapping used purely for
// deduplication of summarization tasks, not for durable task history.
type TaskLedger interface {
	// Get returns the task id currently tracking the document.
	// Returns (uuid.Nil, false, nil) when no entry exists.
	Get(ctx context.Context, documentID uuid.UUID) (uuid.UUID, bool, error)

	// Claim atomically writes documentID→taskID with the given TTL if and
	// only if no entry exists. Returns false when another task already
	// holds the slot.
	Claim(ctx context.Context, documentID, taskID uuid.UUID, ttl time.Duration) (bool, error)

	// Delete removes the entry, freeing the slot for a new task.
	Delete(ctx context.Context, documentID uuid.UUID) error
}

// TaskBackend records the observable state of tasks. Records expire; an
// absent record is interpreted by callers as a task that has not reported.
type TaskBackend interface {
	// SetStatus writes the task's current status with the given TTL.
	SetStatus(ctx context.Context, status *domain.TaskStatus, ttl time.Duration) error

	// GetStatus reads the task's status. Returns (nil, nil) when no record
	// exists for the id.
	GetStatus(ctx context.Context, taskID uuid.UUID) (*domain.TaskStatus, error)
}

// IdempotencyStore defines the interface for distributed deduplication locks
// guarding against redelivered queue messages.
type IdempotencyStore interface {
	// AcquireLock attempts to acquire an exclusive processing lock for a task.
	// Returns true if the lock was acquired (first time), false if already locked (duplicate).
	AcquireLock(ctx context.Context, taskID uuid.UUID) (bool, error)

	// ReleaseLock releases the processing lock with a TTL for eventual cleanup.
	ReleaseLock(ctx context.Context, taskID uuid.UUID) error
}
