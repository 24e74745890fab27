package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailsift/internal/ratelimit"
)

// QuotaController exposes the categorizer's rate-limit and cool-down state to
// operators. Implemented by categorize.Categorizer.
type QuotaController interface {
	QuotaStatus() ratelimit.Status
	ResetQuota()
}

type QuotaHandler struct {
	quota  QuotaController
	logger *zap.Logger
}

func NewQuotaHandler(quota QuotaController, logger *zap.Logger) *QuotaHandler {
	return &QuotaHandler{quota: quota, logger: logger}
}

// Status reports the current window usage and any active cool-down.
func (h *QuotaHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.quota.QuotaStatus())
}

// Reset clears the rolling window and any provider cool-down.
func (h *QuotaHandler) Reset(c *gin.Context) {
	operator, _ := c.Get("operator")
	h.quota.ResetQuota()
	h.logger.Info("Quota state reset", zap.Any("operator", operator))
	c.JSON(http.StatusOK, h.quota.QuotaStatus())
}
