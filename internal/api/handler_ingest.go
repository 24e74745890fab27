package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailsift/internal/service"
	"mailsift/pkg/logger"
)

type IngestHandler struct {
	svc    *service.IngestService
	logger *zap.Logger
}

func NewIngestHandler(svc *service.IngestService, log *zap.Logger) *IngestHandler {
	return &IngestHandler{svc: svc, logger: log}
}

// Ingest accepts an inbound email and queues it for categorization.
func (h *IngestHandler) Ingest(c *gin.Context) {
	var req service.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	id, uid, err := h.svc.CreateAndQueue(ctx, req)
	if err != nil {
		logger.WithTrace(ctx, h.logger).Error("Failed to ingest email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to ingest email"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"id": id, "uid": uid})
}
