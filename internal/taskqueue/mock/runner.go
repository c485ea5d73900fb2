package mock

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/kingdomOfIT/momentum/internal/domain"
	"github.com/kingdomOfIT/momentum/internal/taskqueue"
)

var _ taskqueue.TaskRunner = (*TaskRunner)(nil)

// TaskRunner is a test double for taskqueue.TaskRunner. By default every
// submitted task is recorded and reported as queued; States lets a test
// move tasks through their lifecycle.
type TaskRunner struct {
	mu sync.Mutex

	SubmitFn func(ctx context.Context, task *domain.Task) error
	StateFn  func(ctx context.Context, taskID uuid.UUID) (*domain.TaskStatus, error)

	Submitted []*domain.Task
	States    map[uuid.UUID]*domain.TaskStatus

	StateCalls int
}

// NewTaskRunner creates a new mock task runner.
func NewTaskRunner() *TaskRunner {
	return &TaskRunner{
		States: make(map[uuid.UUID]*domain.TaskStatus),
	}
}

func (m *TaskRunner) Submit(ctx context.Context, task *domain.Task) error {
	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submitted = append(m.Submitted, task)
	m.States[task.TaskID] = &domain.TaskStatus{
		TaskID:     task.TaskID,
		DocumentID: task.DocumentID,
		State:      domain.StateQueued,
	}
	return nil
}

func (m *TaskRunner) State(ctx context.Context, taskID uuid.UUID) (*domain.TaskStatus, error) {
	m.mu.Lock()
	m.StateCalls++
	m.mu.Unlock()
	if m.StateFn != nil {
		return m.StateFn(ctx, taskID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if status, ok := m.States[taskID]; ok {
		return status, nil
	}
	return &domain.TaskStatus{TaskID: taskID, State: domain.StateQueued}, nil
}

// SetState moves a task to the given status (for test orchestration).
func (m *TaskRunner) SetState(taskID uuid.UUID, status *domain.TaskStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.States[taskID] = status
}
