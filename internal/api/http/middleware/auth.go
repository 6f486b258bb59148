package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth 访问令牌认证中间件
// 网关的认证职责委托给前置层（反向代理或独立认证服务），
// 本中间件是该前置层的接入缝：配置了令牌时做静态Bearer校验，
// 未配置令牌时放行并交由前置层兜底
type Auth struct {
	logger *zap.Logger
	tokens []string

	warnOnce sync.Once
}

// NewAuth 创建认证中间件
func NewAuth(logger *zap.Logger, tokens []string) *Auth {
	return &Auth{
		logger: logger,
		tokens: tokens,
	}
}

// Middleware 返回Gin中间件
func (m *Auth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(m.tokens) == 0 {
			m.warnOnce.Do(func() {
				if m.logger != nil {
					m.logger.Warn("auth tokens not configured, write endpoints rely on upstream auth layer")
				}
			})
			c.Next()
			return
		}

		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" || !m.tokenAllowed(token) {
			if m.logger != nil {
				m.logger.Warn("unauthenticated request rejected",
					zap.String("path", c.Request.URL.Path),
					zap.String("client_ip", c.ClientIP()),
				)
			}
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"err_msg": "authentication required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// tokenAllowed 常数时间比较，避免令牌被计时侧信道探测
func (m *Auth) tokenAllowed(token string) bool {
	for _, t := range m.tokens {
		if subtle.ConstantTimeCompare([]byte(t), []byte(token)) == 1 {
			return true
		}
	}
	return false
}

// extractBearerToken 提取Bearer令牌
func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
