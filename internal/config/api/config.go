package api

import (
	"time"

	"github.com/esigngate/v1/pkg/types"
)

// APIOptions API服务配置选项
// 整个API模块的统一配置入口
type APIOptions struct {
	// HTTP API配置
	HTTP HTTPConfig `json:"http"`
}

// HTTPConfig HTTP API配置
type HTTPConfig struct {
	// 基础配置
	Enabled bool   `json:"enabled"` // 是否启用HTTP服务（总开关）
	Host    string `json:"host"`    // 监听地址
	Port    int    `json:"port"`    // 监听端口

	// 超时配置
	ReadTimeout  time.Duration `json:"read_timeout"`  // 读取超时时间
	WriteTimeout time.Duration `json:"write_timeout"` // 写入超时时间
	IdleTimeout  time.Duration `json:"idle_timeout"`  // 空闲连接超时

	// 限流配置
	RateLimitRead  int `json:"rate_limit_read"`  // 读操作每秒最大请求数
	RateLimitWrite int `json:"rate_limit_write"` // 写操作每秒最大请求数

	// 访问令牌列表（保护签名合成等写操作端点）
	// 为空表示认证完全交给前置层，网关放行所有写操作
	AuthTokens []string `json:"auth_tokens"`

	// 指标开关
	MetricsEnabled bool `json:"metrics_enabled"` // 是否暴露 /metrics
}

// Config API配置实现
type Config struct {
	options *APIOptions
}

// New 创建API配置实现
// 先创建完整默认配置，再用用户配置覆盖非nil字段
func New(userConfig *types.UserAPIConfig) *Config {
	options := createDefaultAPIOptions()

	if userConfig != nil {
		applyUserAPIConfig(options, userConfig)
	}

	return &Config{options: options}
}

// GetOptions 获取API配置选项
func (c *Config) GetOptions() *APIOptions {
	return c.options
}

// applyUserAPIConfig 应用用户配置覆盖默认值
// 指针为nil表示用户未设置，保留默认值；非nil即使为零值也采用
func applyUserAPIConfig(options *APIOptions, user *types.UserAPIConfig) {
	if user.HTTPEnabled != nil {
		options.HTTP.Enabled = *user.HTTPEnabled
	}
	if user.HTTPHost != nil {
		options.HTTP.Host = *user.HTTPHost
	}
	if user.HTTPPort != nil {
		options.HTTP.Port = *user.HTTPPort
	}
	if user.RateLimitRead != nil {
		options.HTTP.RateLimitRead = *user.RateLimitRead
	}
	if user.RateLimitWrite != nil {
		options.HTTP.RateLimitWrite = *user.RateLimitWrite
	}
	if user.AuthTokens != nil {
		options.HTTP.AuthTokens = user.AuthTokens
	}
	if user.MetricsEnabled != nil {
		options.HTTP.MetricsEnabled = *user.MetricsEnabled
	}
}
