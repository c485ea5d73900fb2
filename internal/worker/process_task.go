package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kingdomOfIT/momentum/internal/domain"
	"github.com/kingdomOfIT/momentum/internal/metrics"
	"github.com/kingdomOfIT/momentum/internal/repository"
	"github.com/kingdomOfIT/momentum/internal/summarizer"
)

// Summarizer is the task body: it turns document text into a summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (*summarizer.Result, error)
}

// ProcessTaskUsecase runs one summarization task end to end: idempotency
// check, running status, summarize, persist summary, terminal status.
type ProcessTaskUsecase struct {
	store      repository.DocumentStore
	backend    repository.TaskBackend
	idempotent repository.IdempotencyStore
	summarizer Summarizer
	resultTTL  time.Duration
	logger     *zap.Logger
}

// NewProcessTaskUsecase creates a new ProcessTaskUsecase.
func NewProcessTaskUsecase(
	store repository.DocumentStore,
	backend repository.TaskBackend,
	idempotent repository.IdempotencyStore,
	summ Summarizer,
	resultTTL time.Duration,
	logger *zap.Logger,
) *ProcessTaskUsecase {
	return &ProcessTaskUsecase{
		store:      store,
		backend:    backend,
		idempotent: idempotent,
		summarizer: summ,
		resultTTL:  resultTTL,
		logger:     logger,
	}
}

// Execute processes a single task. Returns (isDuplicate, error). A failure
// anywhere marks the task failed with the error message; no partial output
// is persisted.
func (uc *ProcessTaskUsecase) Execute(ctx context.Context, task *domain.Task) (bool, error) {
	// Step 1: Idempotency check against broker redelivery
	acquired, err := uc.idempotent.AcquireLock(ctx, task.TaskID)
	if err != nil {
		uc.logger.Error("Failed to acquire idempotency lock", zap.Error(err), zap.String("task_id", task.TaskID.String()))
		return false, err
	}
	if !acquired {
		uc.logger.Info("Duplicate message detected, skipping", zap.String("task_id", task.TaskID.String()))
		return true, nil
	}

	// Step 2: Report the task as running
	if err := uc.setStatus(ctx, task, domain.StateRunning, nil, ""); err != nil {
		uc.logger.Error("Failed to update task status", zap.Error(err), zap.String("task_id", task.TaskID.String()))
		return false, err
	}

	// Step 3: Summarize
	result, err := uc.summarizer.Summarize(ctx, task.Text)
	if err != nil {
		uc.logger.Error("Summarization failed",
			zap.Error(err),
			zap.String("task_id", task.TaskID.String()),
			zap.String("document_id", task.DocumentID.String()),
		)
		_ = uc.setStatus(ctx, task, domain.StateFailed, nil, err.Error())
		return false, err
	}

	metrics.ChunksPerDocument.Observe(float64(result.Chunks))

	// Step 4: Persist the summary before reporting success, so a succeeded
	// status always implies a readable summary.
	if err := uc.store.SaveSummary(ctx, task.DocumentID, result.Summary); err != nil {
		uc.logger.Error("Failed to store summary", zap.Error(err), zap.String("task_id", task.TaskID.String()))
		_ = uc.setStatus(ctx, task, domain.StateFailed, nil, err.Error())
		return false, err
	}

	// Step 5: Report success with the result payload
	payload := &domain.TaskResult{DocumentID: task.DocumentID, Summary: result.Summary}
	if err := uc.setStatus(ctx, task, domain.StateSucceeded, payload, ""); err != nil {
		uc.logger.Error("Failed to report task success", zap.Error(err), zap.String("task_id", task.TaskID.String()))
		return false, err
	}

	// Step 6: Release idempotency lock (set TTL for eventual cleanup)
	_ = uc.idempotent.ReleaseLock(ctx, task.TaskID)

	uc.logger.Info("Summary generated and stored",
		zap.String("task_id", task.TaskID.String()),
		zap.String("document_id", task.DocumentID.String()),
		zap.Int("chunks", result.Chunks),
		zap.Int("summary_bytes", len(result.Summary)),
	)

	return false, nil
}

func (uc *ProcessTaskUsecase) setStatus(ctx context.Context, task *domain.Task, state domain.TaskState, result *domain.TaskResult, errMsg string) error {
	return uc.backend.SetStatus(ctx, &domain.TaskStatus{
		TaskID:     task.TaskID,
		DocumentID: task.DocumentID,
		State:      state,
		Result:     result,
		Error:      errMsg,
	}, uc.resultTTL)
}
