package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kingdomOfIT/momentum/internal/domain"
	"github.com/kingdomOfIT/momentum/internal/repository"
)

// GetDocumentUsecase handles fetching stored documents.
type GetDocumentUsecase struct {
	store  repository.DocumentStore
	logger *zap.Logger
}

// NewGetDocumentUsecase creates a new GetDocumentUsecase.
func NewGetDocumentUsecase(store repository.DocumentStore, logger *zap.Logger) *GetDocumentUsecase {
	return &GetDocumentUsecase{
		store:  store,
		logger: logger,
	}
}

// Execute retrieves a document by its id.
func (uc *GetDocumentUsecase) Execute(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	doc, err := uc.store.GetDocument(ctx, id)
	if err != nil {
		uc.logger.Debug("Document not found", zap.String("document_id", id.String()), zap.Error(err))
		return nil, err
	}
	return doc, nil
}
