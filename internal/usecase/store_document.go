package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kingdomOfIT/momentum/internal/domain"
	"github.com/kingdomOfIT/momentum/internal/repository"
)

const maxDocumentSize = 10 << 20 // 10 MB

// StoreDocumentUsecase handles the business logic for storing documents.
type StoreDocumentUsecase struct {
	store  repository.DocumentStore
	logger *zap.Logger
}

// NewStoreDocumentUsecase creates a new StoreDocumentUsecase.
func NewStoreDocumentUsecase(store repository.DocumentStore, logger *zap.Logger) *StoreDocumentUsecase {
	return &StoreDocumentUsecase{
		store:  store,
		logger: logger,
	}
}

// Execute validates the text, stores it under a fresh document id, and
// returns the created document.
func (uc *StoreDocumentUsecase) Execute(ctx context.Context, text string) (*domain.Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyDocument
	}
	if len(text) > maxDocumentSize {
		return nil, domain.ErrDocumentTooLarge
	}

	doc := &domain.Document{
		DocumentID: uuid.New(),
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}

	if err := uc.store.SaveDocument(ctx, doc); err != nil {
		uc.logger.Error("Failed to store document", zap.Error(err), zap.String("document_id", doc.DocumentID.String()))
		return nil, fmt.Errorf("store document: %w", err)
	}

	uc.logger.Info("Document stored",
		zap.String("document_id", doc.DocumentID.String()),
		zap.Int("size_bytes", len(text)),
	)

	return doc, nil
}
