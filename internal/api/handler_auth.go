package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mailsift/config"
	"mailsift/pkg/util"
)

type loginRequest struct {
	Operator string `json:"operator" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	cfg    config.AdminConfig
	logger *zap.Logger
}

func NewAuthHandler(cfg config.AdminConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, logger: logger}
}

// Login exchanges operator credentials for a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "operator and password are required"})
		return
	}

	if req.Operator != h.cfg.Operator || !util.CheckPassword(req.Password, h.cfg.PasswordHash) {
		h.logger.Warn("Failed login attempt", zap.String("operator", req.Operator))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := util.GenerateJWT(req.Operator, h.cfg.JWTSecret)
	if err != nil {
		h.logger.Error("Failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
