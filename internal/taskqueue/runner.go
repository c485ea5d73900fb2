package taskqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kingdomOfIT/momentum/internal/domain"
	"github.com/kingdomOfIT/momentum/internal/publisher"
	"github.com/kingdomOfIT/momentum/internal/repository"
)

// TaskRunner hands summarization tasks to the asynchronous execution side
// and reports their observable state. Submission is fire-and-forget: once a
// task is accepted it runs to completion or failure with no cancellation.
type TaskRunner interface {
	// Submit enqueues the task for execution.
	Submit(ctx context.Context, task *domain.Task) error

	// State returns the task's current status. A task the backend has no
	// record of is reported as queued.
	State(ctx context.Context, taskID uuid.UUID) (*domain.TaskStatus, error)
}

var _ TaskRunner = (*AMQPRunner)(nil)

// AMQPRunner submits tasks over RabbitMQ and reads their state from the
// result backend the worker writes to.
type AMQPRunner struct {
	pub       publisher.Publisher
	backend   repository.TaskBackend
	resultTTL time.Duration
}

// NewAMQPRunner creates a TaskRunner on top of a publisher and a task backend.
func NewAMQPRunner(pub publisher.Publisher, backend repository.TaskBackend, resultTTL time.Duration) *AMQPRunner {
	return &AMQPRunner{
		pub:       pub,
		backend:   backend,
		resultTTL: resultTTL,
	}
}

func (r *AMQPRunner) Submit(ctx context.Context, task *domain.Task) error {
	// Seed the queued status before publishing so a poll that races the
	// broker handoff still observes the task.
	status := &domain.TaskStatus{
		TaskID:     task.TaskID,
		DocumentID: task.DocumentID,
		State:      domain.StateQueued,
	}
	if err := r.backend.SetStatus(ctx, status, r.resultTTL); err != nil {
		return fmt.Errorf("taskqueue: seed status: %w", err)
	}

	if err := r.pub.Publish(ctx, task); err != nil {
		return fmt.Errorf("taskqueue: publish: %w", err)
	}
	return nil
}

func (r *AMQPRunner) State(ctx context.Context, taskID uuid.UUID) (*domain.TaskStatus, error) {
	status, err := r.backend.GetStatus(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		// The backend record expired or was never written. The task is
		// still tracked by the ledger, so report it as not yet started.
		return &domain.TaskStatus{TaskID: taskID, State: domain.StateQueued}, nil
	}
	return status, nil
}
