package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kingdomOfIT/momentum/internal/domain"
	"github.com/kingdomOfIT/momentum/internal/repository"
	"github.com/kingdomOfIT/momentum/internal/taskqueue"
)

// RequestSummaryUsecase decides, per request, whether to return a stored
// summary, report on the task already producing one, reclaim a failed
// task's slot, or submit a fresh task. The ledger is the only mutable state
// it owns; at most one task per document is ever queued or running, enforced
// by the conditional ledger claim.
type RequestSummaryUsecase struct {
	store   repository.DocumentStore
	ledger  repository.TaskLedger
	runner  taskqueue.TaskRunner
	taskTTL time.Duration
	logger  *zap.Logger
}

// NewRequestSummaryUsecase creates a new RequestSummaryUsecase.
func NewRequestSummaryUsecase(
	store repository.DocumentStore,
	ledger repository.TaskLedger,
	runner taskqueue.TaskRunner,
	taskTTL time.Duration,
	logger *zap.Logger,
) *RequestSummaryUsecase {
	return &RequestSummaryUsecase{
		store:   store,
		ledger:  ledger,
		runner:  runner,
		taskTTL: taskTTL,
		logger:  logger,
	}
}

// Execute runs the orchestration for one summary request.
func (uc *RequestSummaryUsecase) Execute(ctx context.Context, documentID uuid.UUID) (*domain.SummaryOutcome, error) {
	doc, err := uc.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	// A persisted summary is terminal ground truth: it short-circuits the
	// task machinery even if a stale ledger entry lingers.
	summary, ok, err := uc.store.GetSummary(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}
	if ok {
		return &domain.SummaryOutcome{
			Kind:       domain.OutcomeReady,
			DocumentID: documentID,
			Summary:    summary,
		}, nil
	}

	taskID, tracked, err := uc.ledger.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if tracked {
		status, err := uc.runner.State(ctx, taskID)
		if err != nil {
			return nil, fmt.Errorf("query task state: %w", err)
		}

		switch status.State {
		case domain.StateQueued, domain.StateRunning:
			// Idempotent and side-effect free: the caller polls again later.
			return &domain.SummaryOutcome{
				Kind:       domain.OutcomeInProgress,
				DocumentID: documentID,
				TaskID:     taskID,
				State:      status.State,
			}, nil

		case domain.StateSucceeded:
			// The worker persisted the summary before reporting success, so
			// the result payload is served directly without a backfill write.
			return &domain.SummaryOutcome{
				Kind:       domain.OutcomeReady,
				DocumentID: documentID,
				Summary:    status.Result.Summary,
			}, nil

		case domain.StateFailed:
			// Clear the dead slot and fall through to a fresh submission.
			// Failures are retried lazily, only when the next caller polls.
			uc.logger.Info("Reclaiming failed task slot",
				zap.String("document_id", documentID.String()),
				zap.String("task_id", taskID.String()),
				zap.String("error", status.Error),
			)
			if err := uc.ledger.Delete(ctx, documentID); err != nil {
				return nil, err
			}
		}
	}

	return uc.submit(ctx, doc)
}

// submit claims the ledger slot and hands a new task to the runner. The
// claim happens before the publish so two concurrent first-time requests
// cannot both submit; the loser reports the winner's task instead.
func (uc *RequestSummaryUsecase) submit(ctx context.Context, doc *domain.Document) (*domain.SummaryOutcome, error) {
	taskID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate task id: %w", err)
	}

	claimed, err := uc.ledger.Claim(ctx, doc.DocumentID, taskID, uc.taskTTL)
	if err != nil {
		return nil, err
	}
	if !claimed {
		winner, ok, err := uc.ledger.Get(ctx, doc.DocumentID)
		if err != nil {
			return nil, err
		}
		if !ok {
			// The winning entry expired or was deleted between the claim and
			// the read. Rare; the next poll resolves it.
			return nil, domain.ErrSubmitFailed
		}
		uc.logger.Debug("Lost ledger claim to concurrent request",
			zap.String("document_id", doc.DocumentID.String()),
			zap.String("task_id", winner.String()),
		)
		return &domain.SummaryOutcome{
			Kind:       domain.OutcomeInProgress,
			DocumentID: doc.DocumentID,
			TaskID:     winner,
			State:      domain.StateQueued,
		}, nil
	}

	task := &domain.Task{
		TaskID:     taskID,
		DocumentID: doc.DocumentID,
		Text:       doc.Text,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.runner.Submit(ctx, task); err != nil {
		uc.logger.Error("Failed to submit summarization task",
			zap.Error(err),
			zap.String("document_id", doc.DocumentID.String()),
			zap.String("task_id", taskID.String()),
		)
		// Release the slot so the next caller can resubmit.
		_ = uc.ledger.Delete(ctx, doc.DocumentID)
		return nil, domain.ErrSubmitFailed
	}

	uc.logger.Info("Summarization task started",
		zap.String("document_id", doc.DocumentID.String()),
		zap.String("task_id", taskID.String()),
	)

	return &domain.SummaryOutcome{
		Kind:       domain.OutcomeStarted,
		DocumentID: doc.DocumentID,
		TaskID:     taskID,
		State:      domain.StateQueued,
	}, nil
}
