package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(handlers...)
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	engine.POST("/pkcs7/compose", func(c *gin.Context) {
		c.String(http.StatusOK, "composed")
	})
	return engine
}

func doRequest(engine *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	engine := newEngine(NewRequestID().Middleware())

	rec := doRequest(engine, http.MethodGet, "/ping", nil)

	got := rec.Header().Get("X-Request-ID")
	assert.NotEmpty(t, got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err, "generated request id must be a valid uuid")
}

func TestRequestIDPreservedWhenProvided(t *testing.T) {
	engine := newEngine(NewRequestID().Middleware())

	rec := doRequest(engine, http.MethodGet, "/ping", map[string]string{
		"X-Request-ID": "caller-supplied-id",
	})

	assert.Equal(t, "caller-supplied-id", rec.Header().Get("X-Request-ID"))
}

func TestAuthRejectsWithoutToken(t *testing.T) {
	auth := NewAuth(zap.NewNop(), []string{"secret-token"})
	engine := newEngine(auth.Middleware())

	rec := doRequest(engine, http.MethodPost, "/pkcs7/compose", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"err_msg":"authentication required"}`, rec.Body.String())
}

func TestAuthAcceptsConfiguredToken(t *testing.T) {
	auth := NewAuth(zap.NewNop(), []string{"secret-token"})
	engine := newEngine(auth.Middleware())

	rec := doRequest(engine, http.MethodPost, "/pkcs7/compose", map[string]string{
		"Authorization": "Bearer secret-token",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRejectsWrongToken(t *testing.T) {
	auth := NewAuth(zap.NewNop(), []string{"secret-token"})
	engine := newEngine(auth.Middleware())

	rec := doRequest(engine, http.MethodPost, "/pkcs7/compose", map[string]string{
		"Authorization": "Bearer guessed-token",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthPassesThroughWhenUnconfigured(t *testing.T) {
	// 未配置令牌时网关放行，认证由前置层兜底
	auth := NewAuth(zap.NewNop(), nil)
	engine := newEngine(auth.Middleware())

	rec := doRequest(engine, http.MethodPost, "/pkcs7/compose", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitExhaustionReturns429(t *testing.T) {
	// 写限额1：同一客户端的第二个合成请求必须被拒
	rl := NewRateLimit(zap.NewNop(), 100, 1)
	engine := newEngine(rl.Middleware())

	first := doRequest(engine, http.MethodPost, "/pkcs7/compose", nil)
	second := doRequest(engine, http.MethodPost, "/pkcs7/compose", nil)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRateLimitReadAndWriteTiersIndependent(t *testing.T) {
	rl := NewRateLimit(zap.NewNop(), 100, 1)
	engine := newEngine(rl.Middleware())

	// 耗尽写限额
	doRequest(engine, http.MethodPost, "/pkcs7/compose", nil)
	doRequest(engine, http.MethodPost, "/pkcs7/compose", nil)

	// 读路径不受写限额影响
	rec := doRequest(engine, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
