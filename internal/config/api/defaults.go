package api

import "time"

// API服务默认配置值
// 这些默认值基于生产环境的最佳实践和常见API服务配置
const (
	// defaultHTTPEnabled 默认启用HTTP API
	// 原因：HTTP API是网关唯一的对外服务面
	defaultHTTPEnabled = true

	// defaultHTTPHost HTTP监听地址设为0.0.0.0
	// 原因：监听所有网络接口，网关通常部署在反向代理之后
	defaultHTTPHost = "0.0.0.0"

	// defaultHTTPPort HTTP端口设为8080
	// 原因：8080是常用的HTTP替代端口，不需要root权限，便于开发和部署
	defaultHTTPPort = 8080

	// defaultHTTPReadTimeout HTTP读取超时设为15秒
	// 原因：防止慢客户端占用连接，确保服务器响应性
	defaultHTTPReadTimeout = 15 * time.Second

	// defaultHTTPWriteTimeout HTTP写入超时设为15秒
	// 原因：防止慢客户端影响响应写入，保证服务器性能
	defaultHTTPWriteTimeout = 15 * time.Second

	// defaultHTTPIdleTimeout 空闲连接超时设为60秒
	// 原因：及时回收空闲连接，平衡连接复用和资源占用
	defaultHTTPIdleTimeout = 60 * time.Second

	// defaultRateLimitRead 读操作限流每秒100请求
	// 原因：验真和挑战获取是读路径，限制宽松
	defaultRateLimitRead = 100

	// defaultRateLimitWrite 写操作限流每秒10请求
	// 原因：签名合成会触发多次上游调用，限制严格以保护机构服务
	defaultRateLimitWrite = 10

	// defaultMetricsEnabled 默认暴露Prometheus指标
	defaultMetricsEnabled = true
)

// createDefaultAPIOptions 创建完整的默认API配置
func createDefaultAPIOptions() *APIOptions {
	return &APIOptions{
		HTTP: HTTPConfig{
			Enabled:        defaultHTTPEnabled,
			Host:           defaultHTTPHost,
			Port:           defaultHTTPPort,
			ReadTimeout:    defaultHTTPReadTimeout,
			WriteTimeout:   defaultHTTPWriteTimeout,
			IdleTimeout:    defaultHTTPIdleTimeout,
			RateLimitRead:  defaultRateLimitRead,
			RateLimitWrite: defaultRateLimitWrite,
			AuthTokens:     nil,
			MetricsEnabled: defaultMetricsEnabled,
		},
	}
}
