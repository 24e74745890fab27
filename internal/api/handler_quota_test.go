package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mailsift/config"
	"mailsift/internal/ratelimit"
	"mailsift/pkg/util"
)

type stubQuota struct {
	status ratelimit.Status
	resets int
}

func (s *stubQuota) QuotaStatus() ratelimit.Status { return s.status }
func (s *stubQuota) ResetQuota()                   { s.resets++ }

func newTestAdminRouter(quota QuotaController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.AdminConfig{JWTSecret: "test-secret"}
	return NewAdminRouter(cfg, quota, zap.NewNop())
}

func authedRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	token, err := util.GenerateJWT("ops", "test-secret")
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestQuotaStatusEndpoint(t *testing.T) {
	resetAt := "2025-06-01T12:00:35Z"
	quota := &stubQuota{status: ratelimit.Status{
		RequestCount:   7,
		Limit:          10,
		WindowStart:    "2025-06-01T12:00:00Z",
		QuotaExhausted: true,
		QuotaResetTime: &resetAt,
	}}
	router := newTestAdminRouter(quota)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, http.MethodGet, "/admin/quota"))

	require.Equal(t, http.StatusOK, w.Code)
	var got ratelimit.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 7, got.RequestCount)
	assert.True(t, got.QuotaExhausted)
	require.NotNil(t, got.QuotaResetTime)
	assert.Equal(t, resetAt, *got.QuotaResetTime)
}

func TestQuotaResetEndpoint(t *testing.T) {
	quota := &stubQuota{}
	router := newTestAdminRouter(quota)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, http.MethodPost, "/admin/quota/reset"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, quota.resets)
}

func TestQuotaEndpointsRequireAuth(t *testing.T) {
	router := newTestAdminRouter(&stubQuota{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/quota", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/quota/reset", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
