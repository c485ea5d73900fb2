package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kingdomOfIT/momentum/internal/domain"
	"github.com/kingdomOfIT/momentum/internal/usecase"
)

// DocumentHandler handles HTTP requests for documents and their summaries.
type DocumentHandler struct {
	storeUC   *usecase.StoreDocumentUsecase
	getUC     *usecase.GetDocumentUsecase
	summaryUC *usecase.RequestSummaryUsecase
	logger    *zap.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(
	storeUC *usecase.StoreDocumentUsecase,
	getUC *usecase.GetDocumentUsecase,
	summaryUC *usecase.RequestSummaryUsecase,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		storeUC:   storeUC,
		getUC:     getUC,
		summaryUC: summaryUC,
		logger:    logger,
	}
}

// Store handles POST /documents
func (h *DocumentHandler) Store(c *gin.Context) {
	text := c.PostForm("text")

	doc, err := h.storeUC.Execute(c.Request.Context(), text)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyDocument):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrDocumentTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Store document failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"document_id": doc.DocumentID})
}

// Get handles GET /documents/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID format"})
		return
	}

	doc, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		h.logger.Error("Get document failed", zap.Error(err), zap.String("document_id", id.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document_id": doc.DocumentID,
		"text":        doc.Text,
	})
}

// Summary handles GET /documents/:id/summary
func (h *DocumentHandler) Summary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID format"})
		return
	}

	outcome, err := h.summaryUC.Execute(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		case errors.Is(err, domain.ErrSubmitFailed):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		default:
			h.logger.Error("Request summary failed", zap.Error(err), zap.String("document_id", id.String()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	switch outcome.Kind {
	case domain.OutcomeReady:
		c.JSON(http.StatusOK, gin.H{
			"document_id": outcome.DocumentID,
			"summary":     outcome.Summary,
		})
	case domain.OutcomeInProgress:
		c.JSON(http.StatusAccepted, gin.H{
			"document_id": outcome.DocumentID,
			"message":     "Summary is being generated. Please try again soon.",
			"task_id":     outcome.TaskID,
			"status":      statusLabel(outcome.State),
		})
	case domain.OutcomeStarted:
		c.JSON(http.StatusAccepted, gin.H{
			"document_id": outcome.DocumentID,
			"message":     "Summary generation started",
			"task_id":     outcome.TaskID,
			"status":      "pending",
		})
	}
}

// statusLabel maps task states to the client-facing status strings.
func statusLabel(state domain.TaskState) string {
	switch state {
	case domain.StateQueued:
		return "pending"
	case domain.StateRunning:
		return "running"
	case domain.StateSucceeded:
		return "succeeded"
	case domain.StateFailed:
		return "failed"
	}
	return "unknown"
}
