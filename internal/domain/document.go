package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskState represents the lifecycle state of a summarization task.
type TaskState string

const (
	StateQueued    TaskState = "QUEUED"
	StateRunning   TaskState = "RUNNING"
	StateSucceeded TaskState = "SUCCEEDED"
	StateFailed    TaskState = "FAILED"
)

// IsTerminal returns true if the state represents a final state.
func (s TaskState) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Document is a stored text document. Immutable after creation.
type Document struct {
	DocumentID uuid.UUID `json:"document_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// Summary is the persisted summary of a document. At most one per document.
type Summary struct {
	DocumentID uuid.UUID `json:"document_id"`
	Text       string    `json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}

// Task is one asynchronous summarization of one document. It travels over
// the message queue; its state lives in the result backend, not here.
type Task struct {
	TaskID     uuid.UUID `json:"task_id"`
	DocumentID uuid.UUID `json:"document_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// TaskResult is the payload a succeeded task reports back.
type TaskResult struct {
	DocumentID uuid.UUID `json:"document_id"`
	Summary    string    `json:"summary"`
}

// TaskStatus is the observable state of a task as recorded in the result
// backend: the state plus, depending on it, a result payload or an error.
type TaskStatus struct {
	TaskID     uuid.UUID   `json:"task_id"`
	DocumentID uuid.UUID   `json:"document_id"`
	State      TaskState   `json:"state"`
	Result     *TaskResult `json:"result,omitempty"`
	Error      string      `json:"error,omitempty"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// TaskMessage wraps a task received from the queue with its ack callbacks.
type TaskMessage struct {
	Task *Task
	Ack  func() error
	Nack func(requeue bool) error
}

// OutcomeKind discriminates the possible results of a summary request.
type OutcomeKind string

const (
	// OutcomeReady means a summary exists and is returned.
	OutcomeReady OutcomeKind = "READY"
	// OutcomeInProgress means a previously submitted task is still active.
	OutcomeInProgress OutcomeKind = "IN_PROGRESS"
	// OutcomeStarted means a new task was submitted by this request.
	OutcomeStarted OutcomeKind = "STARTED"
)

// SummaryOutcome is what requesting a summary produces: either the summary
// itself, or a reference to the task that is (now) producing it.
type SummaryOutcome struct {
	Kind       OutcomeKind
	DocumentID uuid.UUID
	Summary    string    // set when Kind == OutcomeReady
	TaskID     uuid.UUID // set when Kind != OutcomeReady
	State      TaskState // set when Kind != OutcomeReady
}
