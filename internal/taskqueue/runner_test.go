package taskqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kingdomOfIT/momentum/internal/domain"
	mockpub "github.com/kingdomOfIT/momentum/internal/publisher/mock"
	mockrepo "github.com/kingdomOfIT/momentum/internal/repository/mock"
)

const testResultTTL = 24 * time.Hour

func newTask() *domain.Task {
	taskID, _ := uuid.NewV7()
	return &domain.Task{
		TaskID:     taskID,
		DocumentID: uuid.New(),
		Text:       "document text",
	}
}

func TestSubmit_SeedsStatusBeforePublish(t *testing.T) {
	pub := mockpub.NewMockPublisher()
	backend := mockrepo.NewTaskBackend()
	runner := NewAMQPRunner(pub, backend, testResultTTL)
	task := newTask()

	pub.PublishFn = func(_ context.Context, _ *domain.Task) error {
		// A poll racing the broker handoff must already see the task.
		if len(backend.StatusWrites) != 1 {
			t.Error("status was not seeded before publishing")
		}
		return nil
	}

	if err := runner.Submit(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(backend.StatusWrites) != 1 {
		t.Fatalf("expected 1 status write, got %d", len(backend.StatusWrites))
	}
	seeded := backend.StatusWrites[0]
	if seeded.State != domain.StateQueued {
		t.Errorf("expected seeded state QUEUED, got %s", seeded.State)
	}
	if seeded.TaskID != task.TaskID || seeded.DocumentID != task.DocumentID {
		t.Error("seeded status references the wrong task")
	}
}

func TestSubmit_PublishFailure(t *testing.T) {
	pub := mockpub.NewMockPublisher()
	pubErr := errors.New("channel closed")
	pub.PublishFn = func(_ context.Context, _ *domain.Task) error { return pubErr }

	runner := NewAMQPRunner(pub, mockrepo.NewTaskBackend(), testResultTTL)

	err := runner.Submit(context.Background(), newTask())
	if !errors.Is(err, pubErr) {
		t.Fatalf("expected the publish error, got %v", err)
	}
}

func TestState_TracksBackendRecord(t *testing.T) {
	pub := mockpub.NewMockPublisher()
	backend := mockrepo.NewTaskBackend()
	runner := NewAMQPRunner(pub, backend, testResultTTL)
	task := newTask()

	if err := runner.Submit(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err := runner.State(context.Background(), task.TaskID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.State != domain.StateQueued {
		t.Errorf("expected QUEUED, got %s", status.State)
	}
}

func TestState_AbsentRecordReportsQueued(t *testing.T) {
	runner := NewAMQPRunner(mockpub.NewMockPublisher(), mockrepo.NewTaskBackend(), testResultTTL)
	taskID, _ := uuid.NewV7()

	status, err := runner.State(context.Background(), taskID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.State != domain.StateQueued {
		t.Errorf("an expired record should read as QUEUED, got %s", status.State)
	}
	if status.TaskID != taskID {
		t.Error("status should echo the queried task id")
	}
}
