package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httptypes "github.com/esigngate/v1/internal/api/http/types"
	"github.com/esigngate/v1/internal/core/identity"
	"github.com/esigngate/v1/pkg/interfaces/authority"
	"github.com/esigngate/v1/pkg/types"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	client    authority.Client
	startTime time.Time
	version   string
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(client authority.Client, version string) *HealthHandler {
	return &HealthHandler{
		client:    client,
		startTime: time.Now(),
		version:   version,
	}
}

// RegisterRoutes 注册路由
func (h *HealthHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/health", h.Health)
	engine.GET("/health/live", h.Live)
	engine.GET("/health/ready", h.Ready)
}

// Health 综合健康检查
// GET /health
// 聚合存活与就绪状态，并附带签名机构的连通性判定
func (h *HealthHandler) Health(c *gin.Context) {
	resp := httptypes.HealthResponse{
		Status:     "healthy",
		Liveness:   "alive",
		Readiness:  "ready",
		Version:    h.version,
		Uptime:     time.Since(h.startTime).String(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: map[string]interface{}{},
	}

	if ok, reason := h.probeAuthority(c); ok {
		resp.Components["authority"] = gin.H{"status": "up"}
	} else {
		resp.Status = "degraded"
		resp.Readiness = "not ready"
		resp.Components["authority"] = gin.H{"status": "down", "reason": reason}
	}

	c.JSON(http.StatusOK, resp)
}

// probeAuthority 探测签名机构连通性
func (h *HealthHandler) probeAuthority(c *gin.Context) (bool, string) {
	probe := types.CallerIdentity{
		DeclaredHost: c.Request.Host,
		SourceIP:     identity.Resolve(c.Request).SourceIP,
	}

	outcome, err := h.client.Challenge(c.Request.Context(), probe)
	if err != nil {
		return false, "signature authority unreachable"
	}
	if outcome.StatusCode != http.StatusOK {
		return false, "signature authority unhealthy"
	}
	return true, ""
}

// Live 存活探针
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Ready 就绪探针
// GET /health/ready
// 通过挑战接口探测签名机构连通性，机构不可达时网关不可服务
func (h *HealthHandler) Ready(c *gin.Context) {
	if ok, reason := h.probeAuthority(c); !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": reason,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
