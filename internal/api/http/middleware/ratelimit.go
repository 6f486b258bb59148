package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit 限流中间件
// 网关的限流策略：
// - 读操作（验真、挑战获取）宽松限流
// - 写操作（签名合成，每次触发多个上游调用）严格限流
// - 按客户端IP限流
type RateLimit struct {
	logger     *zap.Logger
	limiters   map[string]*rateLimiter
	mu         sync.RWMutex
	readLimit  int // 读操作QPS限制
	writeLimit int // 写操作QPS限制
}

// rateLimiter 简单的令牌桶限流器
type rateLimiter struct {
	tokens     int
	maxTokens  int
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimit 创建限流中间件
func NewRateLimit(logger *zap.Logger, readLimit, writeLimit int) *RateLimit {
	return &RateLimit{
		logger:     logger,
		limiters:   make(map[string]*rateLimiter),
		readLimit:  readLimit,
		writeLimit: writeLimit,
	}
}

// Middleware 返回Gin中间件
func (m *RateLimit) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.ClientIP()

		isWrite := isWriteOperation(c.Request.URL.Path, c.Request.Method)

		// 读写两档限额独立计数，写操作耗尽限额不影响读路径
		limit := m.readLimit
		bucketKey := clientID + "|read"
		if isWrite {
			limit = m.writeLimit
			bucketKey = clientID + "|write"
		}

		if !m.allowRequest(bucketKey, limit) {
			if m.logger != nil {
				m.logger.Warn("rate limit exceeded",
					zap.String("client_ip", clientID),
					zap.String("path", c.Request.URL.Path),
				)
			}
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"err_msg": "request rate limit exceeded",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// allowRequest 检查是否允许请求
func (m *RateLimit) allowRequest(bucketKey string, limit int) bool {
	m.mu.Lock()
	limiter, exists := m.limiters[bucketKey]
	if !exists {
		limiter = &rateLimiter{
			tokens:     limit,
			maxTokens:  limit,
			lastRefill: time.Now(),
		}
		m.limiters[bucketKey] = limiter
	}
	m.mu.Unlock()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	// 按经过时间补充令牌（每秒回满）
	now := time.Now()
	elapsed := now.Sub(limiter.lastRefill)
	refill := int(elapsed.Seconds() * float64(limiter.maxTokens))
	if refill > 0 {
		limiter.tokens += refill
		if limiter.tokens > limiter.maxTokens {
			limiter.tokens = limiter.maxTokens
		}
		limiter.lastRefill = now
	}

	if limiter.tokens <= 0 {
		return false
	}
	limiter.tokens--
	return true
}

// isWriteOperation 判断是否为写操作
// 签名合成会触发多次上游机构调用，归为写操作
func isWriteOperation(path, method string) bool {
	if method != http.MethodPost {
		return false
	}
	return strings.Contains(path, "/compose")
}
