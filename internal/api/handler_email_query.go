package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailsift/internal/repository"
)

const defaultListLimit = 50

type EmailQueryHandler struct {
	emailRepo *repository.EmailRepository
	logRepo   *repository.NotificationLogRepository
	logger    *zap.Logger
}

func NewEmailQueryHandler(
	emailRepo *repository.EmailRepository,
	logRepo *repository.NotificationLogRepository,
	logger *zap.Logger,
) *EmailQueryHandler {
	return &EmailQueryHandler{emailRepo: emailRepo, logRepo: logRepo, logger: logger}
}

// ListEmails returns recently ingested emails, newest first.
func (h *EmailQueryHandler) ListEmails(c *gin.Context) {
	emails, err := h.emailRepo.ListRecent(c.Request.Context(), parseLimit(c))
	if err != nil {
		h.logger.Error("Failed to list emails", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list emails"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"emails": emails})
}

// GetEmail returns a single email by row id.
func (h *EmailQueryHandler) GetEmail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email id"})
		return
	}

	email, err := h.emailRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
		return
	}
	c.JSON(http.StatusOK, email)
}

// ListNotifications returns recent per-sink notification outcomes.
func (h *EmailQueryHandler) ListNotifications(c *gin.Context) {
	logs, err := h.logRepo.ListRecent(c.Request.Context(), parseLimit(c))
	if err != nil {
		h.logger.Error("Failed to list notification log", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": logs})
}

func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 || limit > 500 {
		return defaultListLimit
	}
	return limit
}
