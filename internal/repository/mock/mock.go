package mock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kingdomOfIT/momentum/internal/domain"
	"github.com/kingdomOfIT/momentum/internal/repository"
)

// ---- DocumentStore mock ----

var _ repository.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory test double for repository.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[uuid.UUID]*domain.Document
	summaries map[uuid.UUID]string

	// Hook functions for injecting errors
	SaveDocumentFn func(ctx context.Context, doc *domain.Document) error
	GetDocumentFn  func(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	GetSummaryFn   func(ctx context.Context, id uuid.UUID) (string, bool, error)
	SaveSummaryFn  func(ctx context.Context, id uuid.UUID, summary string) error

	GetSummaryCalls int
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[uuid.UUID]*domain.Document),
		summaries: make(map[uuid.UUID]string),
	}
}

func (m *DocumentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if m.SaveDocumentFn != nil {
		return m.SaveDocumentFn(ctx, doc)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.DocumentID] = doc
	return nil
}

func (m *DocumentStore) GetDocument(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	if m.GetDocumentFn != nil {
		return m.GetDocumentFn(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *DocumentStore) GetSummary(ctx context.Context, id uuid.UUID) (string, bool, error) {
	m.mu.Lock()
	m.GetSummaryCalls++
	m.mu.Unlock()
	if m.GetSummaryFn != nil {
		return m.GetSummaryFn(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.summaries[id]
	return text, ok, nil
}

func (m *DocumentStore) SaveSummary(ctx context.Context, id uuid.UUID, summary string) error {
	if m.SaveSummaryFn != nil {
		return m.SaveSummaryFn(ctx, id, summary)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[id] = summary
	return nil
}

// StoredSummary returns the stored summary for assertions.
func (m *DocumentStore) StoredSummary(id uuid.UUID) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.summaries[id]
	return s, ok
}

// ---- TaskLedger mock ----

var _ repository.TaskLedger = (*TaskLedger)(nil)

type ledgerEntry struct {
	taskID    uuid.UUID
	expiresAt time.Time
}

// TaskLedger is an in-memory test double for repository.TaskLedger with a
// controllable clock so TTL expiry can be exercised without waiting.
type TaskLedger struct {
	mu      sync.Mutex
	entries map[uuid.UUID]ledgerEntry

	// Now is the clock used for TTL checks. Defaults to time.Now.
	Now func() time.Time

	GetFn    func(ctx context.Context, documentID uuid.UUID) (uuid.UUID, bool, error)
	ClaimFn  func(ctx context.Context, documentID, taskID uuid.UUID, ttl time.Duration) (bool, error)
	DeleteFn func(ctx context.Context, documentID uuid.UUID) error

	GetCalls    int
	ClaimCalls  []uuid.UUID
	DeleteCalls []uuid.UUID
}

// NewTaskLedger creates a new in-memory ledger.
func NewTaskLedger() *TaskLedger {
	return &TaskLedger{
		entries: make(map[uuid.UUID]ledgerEntry),
		Now:     time.Now,
	}
}

func (m *TaskLedger) Get(ctx context.Context, documentID uuid.UUID) (uuid.UUID, bool, error) {
	m.mu.Lock()
	m.GetCalls++
	m.mu.Unlock()
	if m.GetFn != nil {
		return m.GetFn(ctx, documentID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[documentID]
	if !ok || m.Now().After(entry.expiresAt) {
		delete(m.entries, documentID)
		return uuid.Nil, false, nil
	}
	return entry.taskID, true, nil
}

func (m *TaskLedger) Claim(ctx context.Context, documentID, taskID uuid.UUID, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	m.ClaimCalls = append(m.ClaimCalls, documentID)
	m.mu.Unlock()
	if m.ClaimFn != nil {
		return m.ClaimFn(ctx, documentID, taskID, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.entries[documentID]; ok && !m.Now().After(entry.expiresAt) {
		return false, nil
	}
	m.entries[documentID] = ledgerEntry{taskID: taskID, expiresAt: m.Now().Add(ttl)}
	return true, nil
}

func (m *TaskLedger) Delete(ctx context.Context, documentID uuid.UUID) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, documentID)
	m.mu.Unlock()
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, documentID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, documentID)
	return nil
}

// ---- TaskBackend mock ----

var _ repository.TaskBackend = (*TaskBackend)(nil)

// TaskBackend is an in-memory test double for repository.TaskBackend.
type TaskBackend struct {
	mu       sync.RWMutex
	statuses map[uuid.UUID]*domain.TaskStatus

	SetStatusFn func(ctx context.Context, status *domain.TaskStatus, ttl time.Duration) error
	GetStatusFn func(ctx context.Context, taskID uuid.UUID) (*domain.TaskStatus, error)

	StatusWrites []*domain.TaskStatus
	GetCalls     int
}

// NewTaskBackend creates a new in-memory task backend.
func NewTaskBackend() *TaskBackend {
	return &TaskBackend{
		statuses: make(map[uuid.UUID]*domain.TaskStatus),
	}
}

func (m *TaskBackend) SetStatus(ctx context.Context, status *domain.TaskStatus, ttl time.Duration) error {
	m.mu.Lock()
	m.StatusWrites = append(m.StatusWrites, status)
	m.mu.Unlock()
	if m.SetStatusFn != nil {
		return m.SetStatusFn(ctx, status, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[status.TaskID] = status
	return nil
}

func (m *TaskBackend) GetStatus(ctx context.Context, taskID uuid.UUID) (*domain.TaskStatus, error) {
	m.mu.Lock()
	m.GetCalls++
	m.mu.Unlock()
	if m.GetStatusFn != nil {
		return m.GetStatusFn(ctx, taskID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.statuses[taskID], nil
}

// ---- IdempotencyStore mock ----

var _ repository.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore is a test double for repository.IdempotencyStore.
type IdempotencyStore struct {
	mu sync.Mutex

	AcquireLockFn func(ctx context.Context, taskID uuid.UUID) (bool, error)
	ReleaseLockFn func(ctx context.Context, taskID uuid.UUID) error

	AcquireCalls []uuid.UUID
	ReleaseCalls []uuid.UUID
}

func (m *IdempotencyStore) AcquireLock(ctx context.Context, taskID uuid.UUID) (bool, error) {
	m.mu.Lock()
	m.AcquireCalls = append(m.AcquireCalls, taskID)
	m.mu.Unlock()
	if m.AcquireLockFn != nil {
		return m.AcquireLockFn(ctx, taskID)
	}
	return true, nil // default: lock acquired
}

func (m *IdempotencyStore) ReleaseLock(ctx context.Context, taskID uuid.UUID) error {
	m.mu.Lock()
	m.ReleaseCalls = append(m.ReleaseCalls, taskID)
	m.mu.Unlock()
	if m.ReleaseLockFn != nil {
		return m.ReleaseLockFn(ctx, taskID)
	}
	return nil
}
