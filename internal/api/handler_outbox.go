package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailsift/pkg/outbox"
)

type OutboxHandler struct {
	replay *outbox.ReplayService
	logger *zap.Logger
}

func NewOutboxHandler(replay *outbox.ReplayService, logger *zap.Logger) *OutboxHandler {
	return &OutboxHandler{replay: replay, logger: logger}
}

// ReplayEvent re-publishes a single outbox event by id.
func (h *OutboxHandler) ReplayEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if err := h.replay.ReplayEvent(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to replay event", zap.Int64("event_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"replayed": id})
}

// ReplayFailed re-publishes failed outbox events, up to ?limit.
func (h *OutboxHandler) ReplayFailed(c *gin.Context) {
	count, err := h.replay.ReplayFailedEvents(c.Request.Context(), parseLimit(c))
	if err != nil {
		h.logger.Error("Failed to replay failed events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "replayed": count})
		return
	}
	c.JSON(http.StatusOK, gin.H{"replayed": count})
}
