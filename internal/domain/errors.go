package domain

import "errors"

var (
	// ErrDocumentNotFound is returned when a document id is unknown to the store.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrEmptyDocument is returned when a submitted document has no text.
	ErrEmptyDocument = errors.New("document text cannot be empty")

	// ErrDocumentTooLarge is returned when the document exceeds the size limit.
	ErrDocumentTooLarge = errors.New("document text exceeds maximum size")

	// ErrSubmitFailed is returned when the task cannot be handed to the queue.
	ErrSubmitFailed = errors.New("failed to submit summarization task")

	// ErrLedgerUnavailable is returned when the task ledger cannot be
	// read or written; without it the single-active-task guarantee is gone.
	ErrLedgerUnavailable = errors.New("task ledger is currently unavailable")

	// ErrModelFailure is returned when the summarization model call fails.
	ErrModelFailure = errors.New("summarization model call failed")
)
