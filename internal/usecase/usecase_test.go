package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kingdomOfIT/momentum/internal/domain"
	mockrepo "github.com/kingdomOfIT/momentum/internal/repository/mock"
	mockqueue "github.com/kingdomOfIT/momentum/internal/taskqueue/mock"
)

const testTaskTTL = time.Hour

func newSummaryUsecase(store *mockrepo.DocumentStore, ledger *mockrepo.TaskLedger, runner *mockqueue.TaskRunner) *RequestSummaryUsecase {
	return NewRequestSummaryUsecase(store, ledger, runner, testTaskTTL, zap.NewNop())
}

func storedDocument(t *testing.T, store *mockrepo.DocumentStore, text string) *domain.Document {
	t.Helper()
	doc := &domain.Document{DocumentID: uuid.New(), Text: text, CreatedAt: time.Now().UTC()}
	if err := store.SaveDocument(context.Background(), doc); err != nil {
		t.Fatalf("save document: %v", err)
	}
	return doc
}

func TestStoreDocument_Success(t *testing.T) {
	store := mockrepo.NewDocumentStore()
	uc := NewStoreDocumentUsecase(store, zap.NewNop())

	doc, err := uc.Execute(context.Background(), "Sample document text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.DocumentID == uuid.Nil {
		t.Error("expected non-nil document ID")
	}

	stored, err := store.GetDocument(context.Background(), doc.DocumentID)
	if err != nil {
		t.Fatalf("document not stored: %v", err)
	}
	if stored.Text != "Sample document text" {
		t.Errorf("expected stored text, got %q", stored.Text)
	}
}

func TestStoreDocument_Empty(t *testing.T) {
	store := mockrepo.NewDocumentStore()
	uc := NewStoreDocumentUsecase(store, zap.NewNop())

	_, err := uc.Execute(context.Background(), "   \n\t ")
	if !errors.Is(err, domain.ErrEmptyDocument) {
		t.Errorf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	store := mockrepo.NewDocumentStore()
	uc := NewGetDocumentUsecase(store, zap.NewNop())

	_, err := uc.Execute(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestRequestSummary_StartsNewTask(t *testing.T) {
	store := mockrepo.NewDocumentStore()
	ledger := mockrepo.NewTaskLedger()
	runner := mockqueue.NewTaskRunner()
	uc := newSummaryUsecase(store, ledger, runner)

	doc := storedDocument(t, store, "some text to summarize")

	outcome, err := uc.Execute(context.Background(), doc.DocumentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Kind != domain.OutcomeStarted {
		t.Fatalf("expected STARTED, got %s", outcome.Kind)
	}
	if outcome.TaskID == uuid.Nil {
		t.Error("expected non-nil task ID")
	}
	if len(runner.Submitted) != 1 {
		t.Fatalf("expected 1 submitted task, got %d", len(runner.Submitted))
	}
	if runner.Submitted[0].DocumentID != doc.DocumentID {
		t.Errorf("submitted task tracks wrong document")
	}
	if runner.Submitted[0].Text != doc.Text {
		t.Errorf("submitted task carries wrong text")
	}
	if len(ledger.ClaimCalls) != 1 {
		t.Errorf("expected exactly 1 ledger claim, got %d", len(ledger.ClaimCalls))
	}
}

func TestRequestSummary_Dedup(t *testing.T) {
	store := mockrepo.NewDocumentStore()
	ledger := mockrepo.NewTaskLedger()
	runner := mockqueue.NewTaskRunner()
	uc := newSummaryUsecase(store, ledger, runner)

	doc := storedDocument(t, store, "some text to summarize")

	first, err := uc.Execute(context.Background(), doc.DocumentID)
	if err != nil {
		t.Fatalf("unexpected error on first call: %v", err)
	}
	second, err := uc.Execute(context.Background(), doc.DocumentID)
	if err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}

	if first.Kind != domain.OutcomeStarted {
		t.Errorf("expected first call STARTED, got %s", first.Kind)
	}
	if second.Kind != domain.OutcomeInProgress {
		t.Errorf("expected second call IN_PROGRESS, got %s", second.Kind)
	}
	if second.TaskID != first.TaskID {
		t.Errorf("second call reports a different task: %s vs %s", second.TaskID, first.TaskID)
	}
	if len(runner.Submitted) != 1 {
		t.Errorf("expected exactly 1 submission, got %d", len(runner.Submitted))
	}
	if len(ledger.ClaimCalls) != 1 {
		t.Errorf("expected ledger written exactly once, got %d claims", len(ledger.ClaimCalls))
	}
}

func TestRequestSummary_ReadyShortCircuit(t *testing.T) {
	store := mockrepo.NewDocumentStore()
	ledger := mockrepo.NewTaskLedger()
	runner := mockqueue.NewTaskRunner()
	uc := newSummaryUsecase(store, ledger, runner)

	doc := storedDocument(t, store, "some text")
	if err := store.SaveSummary(context.Background(), doc.DocumentID, "the summary"); err != nil {
		t.Fatalf("save summary: %v", err)
	}

	outcome, err := uc.Execute(context.Background(), doc.DocumentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Kind != domain.OutcomeReady {
		t.Fatalf("expected READY, got %s", outcome.Kind)
	}
	if outcome.Summary != "the summary" {
		t.Errorf("expected stored summary, got %q", outcome.Summary)
	}

	// A persisted summary must short-circuit all task machinery.
	if ledger.GetCalls != 0 {
		t.Errorf("expected no ledger reads, got %d", ledger.GetCalls)
	}
	if runner.StateCalls != 0 {
		t.Errorf("expected no runner state queries, got %d", runner.StateCalls)
	}
	if len(runner.Submitted) != 0 {
		t.Errorf("expected no submissions, got %d", len(runner.Submitted))
	}
}

func TestRequestSummary_InProgressIsSideEffectFree(t *testing.T) {
	store := mockrepo.NewDocumentStore()
	ledger := mockrepo.NewTaskLedger()
	runner := mockqueue.NewTaskRunner()
	uc := newSummaryUsecase(store, ledger, runner)

	doc := storedDocument(t, store, "some text")
	first, _ := uc.Execute(context.Background(), doc.DocumentID)

	runner.SetState(first.TaskID, &domain.TaskStatus{
		TaskID: first.TaskID, DocumentID: doc.DocumentID, State: domain.StateRunning,
	})

	outcome, err := uc.Execute(context.Background(), doc.DocumentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Kind != domain.OutcomeInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", outcome.Kind)
	}
	if outcome.State != domain.StateRunning {
		t.Errorf("expected RUNNING state, got %s", outcome.State)
	}
	if len(ledger.DeleteCalls) != 0 {
		t.Errorf("in-progress poll must not mutate the ledger, saw %d deletes", len(ledger.DeleteCalls))
	}
}

func TestRequestSummary_SucceededTaskServesResult(t *testing.T) {
	store := mockrepo.NewDocumentStore()
	ledger := mockrepo.NewTaskLedger()
	runner := mockqueue.NewTaskRunner()
	uc := newSummaryUsecase(store, ledger, runner)

	doc := storedDocument(t, store, "some text")
	first, _ := uc.Execute(context.Background(), doc.DocumentID)

	runner.SetState(first.TaskID, &domain.TaskStatus{
		TaskID:     first.TaskID,
		DocumentID: doc.DocumentID,
		State:      domain.StateSucceeded,
		Result:     &domain.TaskResult{DocumentID: doc.DocumentID, Summary: "X"},
	})

	outcome, err := uc.Execute(context.Background(), doc.DocumentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Kind != domain.OutcomeReady {
		t.Fatalf("expected READY, got %s", outcome.Kind)
	}
	if outcome.Summary != "X" {
		t.Errorf("expected result payload summary, got %q", outcome.Summary)
	}
}

func TestRequestSummary_FailureReclaim(t *testing.T) {
	store := mockrepo.NewDocumentStore()
	ledger := mockrepo.NewTaskLedger()
	runner := mockqueue.NewTaskRunner()
	uc := newSummaryUsecase(store, ledger, runner)

	doc := storedDocument(t, store, "some text")
	first, _ := uc.Execute(context.Background(), doc.DocumentID)

	runner.SetState(first.TaskID, &domain.TaskStatus{
		TaskID:     first.TaskID,
		DocumentID: doc.DocumentID,
		State:      domain.StateFailed,
		Error:      "model exploded",
	})

	outcome, err := uc.Execute(context.Background(), doc.DocumentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Kind != domain.OutcomeStarted {
		t.Fatalf("expected STARTED after failed task, got %s", outcome.Kind)
	}
	if outcome.TaskID == first.TaskID {
		t.Error("expected a fresh task id after reclaim")
	}
	if len(ledger.DeleteCalls) != 1 {
		t.Errorf("expected stale ledger entry deleted exactly once, got %d", len(ledger.DeleteCalls))
	}
	if len(runner.Submitted) != 2 {
		t.Errorf("expected exactly one new submission after reclaim, got %d total", len(runner.Submitted))
	}
}

func TestRequestSummary_UnknownDocument(t *testing.T) {
	store := mockrepo.NewDocumentStore()
	ledger := mockrepo.NewTaskLedger()
	runner := mockqueue.NewTaskRunner()
	uc := newSummaryUsecase(store, ledger, runner)

	_, err := uc.Execute(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if ledger.GetCalls != 0 || len(ledger.ClaimCalls) != 0 {
		t.Error("unknown document must not touch the ledger")
	}
	if runner.StateCalls != 0 || len(runner.Submitted) != 0 {
		t.Error("unknown document must not touch the task runner")
	}
}

func TestRequestSummary_ClaimLostToConcurrentRequest(t *testing.T) {
	store := mockrepo.NewDocumentStore()
	ledger := mockrepo.NewTaskLedger()
	runner := mockqueue.NewTaskRunner()
	uc := newSummaryUsecase(store, ledger, runner)

	doc := storedDocument(t, store, "some text")

	winner := uuid.Must(uuid.NewV7())
	ledger.ClaimFn = func(ctx context.Context, documentID, taskID uuid.UUID, ttl time.Duration) (bool, error) {
		return false, nil
	}
	ledger.GetFn = func(ctx context.Context, documentID uuid.UUID) (uuid.UUID, bool, error) {
		if ledger.GetCalls == 1 {
			// First read: no entry yet, triggering the submit path.
			return uuid.Nil, false, nil
		}
		return winner, true, nil
	}

	outcome, err := uc.Execute(context.Background(), doc.DocumentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Kind != domain.OutcomeInProgress {
		t.Fatalf("expected IN_PROGRESS for lost claim, got %s", outcome.Kind)
	}
	if outcome.TaskID != winner {
		t.Errorf("expected the winner's task id, got %s", outcome.TaskID)
	}
	if len(runner.Submitted) != 0 {
		t.Errorf("lost claim must not submit, got %d submissions", len(runner.Submitted))
	}
}

func TestRequestSummary_SubmitFailureReleasesClaim(t *testing.T) {
	store := mockrepo.NewDocumentStore()
	ledger := mockrepo.NewTaskLedger()
	runner := mockqueue.NewTaskRunner()
	runner.SubmitFn = func(ctx context.Context, task *domain.Task) error {
		return errors.New("broker unavailable")
	}
	uc := newSummaryUsecase(store, ledger, runner)

	doc := storedDocument(t, store, "some text")

	_, err := uc.Execute(context.Background(), doc.DocumentID)
	if !errors.Is(err, domain.ErrSubmitFailed) {
		t.Fatalf("expected ErrSubmitFailed, got %v", err)
	}
	if len(ledger.DeleteCalls) != 1 {
		t.Errorf("expected claim released after submit failure, got %d deletes", len(ledger.DeleteCalls))
	}
}

func TestRequestSummary_LedgerExpiryAllowsResubmit(t *testing.T) {
	store := mockrepo.NewDocumentStore()
	ledger := mockrepo.NewTaskLedger()
	runner := mockqueue.NewTaskRunner()
	uc := newSummaryUsecase(store, ledger, runner)

	doc := storedDocument(t, store, "some text")

	now := time.Now()
	ledger.Now = func() time.Time { return now }

	first, err := uc.Execute(context.Background(), doc.DocumentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Kind != domain.OutcomeStarted {
		t.Fatalf("expected STARTED, got %s", first.Kind)
	}

	// Advance past the TTL: the entry reads as absent even though the
	// tracked task never reached a terminal state.
	now = now.Add(testTaskTTL + time.Minute)

	second, err := uc.Execute(context.Background(), doc.DocumentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Kind != domain.OutcomeStarted {
		t.Fatalf("expected STARTED after TTL expiry, got %s", second.Kind)
	}
	if len(runner.Submitted) != 2 {
		t.Errorf("expected a duplicate submission after expiry, got %d", len(runner.Submitted))
	}
}

func TestRequestSummary_LedgerUnavailable(t *testing.T) {
	store := mockrepo.NewDocumentStore()
	ledger := mockrepo.NewTaskLedger()
	runner := mockqueue.NewTaskRunner()
	ledger.GetFn = func(ctx context.Context, documentID uuid.UUID) (uuid.UUID, bool, error) {
		return uuid.Nil, false, domain.ErrLedgerUnavailable
	}
	uc := newSummaryUsecase(store, ledger, runner)

	doc := storedDocument(t, store, "some text")

	_, err := uc.Execute(context.Background(), doc.DocumentID)
	if !errors.Is(err, domain.ErrLedgerUnavailable) {
		t.Fatalf("expected ErrLedgerUnavailable, got %v", err)
	}
	if len(runner.Submitted) != 0 {
		t.Error("must not submit when the ledger cannot be read")
	}
}
