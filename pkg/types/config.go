// Package types provides configuration type definitions.
package types

// AppConfig 应用程序根配置
// 只包含JSON配置文件解析所需的结构，不包含任何内部字段
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
type AppConfig struct {
	// 应用程序基本信息
	AppName *string `json:"app_name,omitempty"` // 应用名称
	Version *string `json:"version,omitempty"`  // 应用版本

	// Environment 运行环境：dev | test | prod
	// 只影响日志级别、默认端口等运维属性，不影响签名工作流语义
	Environment *string `json:"environment,omitempty"`

	// API服务配置
	API *UserAPIConfig `json:"api,omitempty"`

	// 签名机构（上游权威服务）配置
	Authority *UserAuthorityConfig `json:"authority,omitempty"`

	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`
}

// UserAPIConfig 用户API配置
// 对应配置文件中的 api 字段
//
// 🔧 零值陷阱处理说明：
// 为了区分"用户未设置"和"用户设置为零值"，这里使用指针类型：
// - nil: 表示用户未在配置文件中设置该字段，将使用系统默认值
// - &value: 表示用户明确设置了该值，即使是零值（如0、false、""）也会被采用
type UserAPIConfig struct {
	HTTPEnabled *bool   `json:"http_enabled,omitempty"` // 是否启用HTTP服务（默认true）
	HTTPHost    *string `json:"http_host,omitempty"`    // HTTP监听地址
	HTTPPort    *int    `json:"http_port,omitempty"`    // HTTP监听端口

	// 限流配置
	RateLimitRead  *int `json:"rate_limit_read,omitempty"`  // 读操作每秒最大请求数
	RateLimitWrite *int `json:"rate_limit_write,omitempty"` // 写操作每秒最大请求数

	// 访问令牌列表（保护签名合成等写操作端点）
	// 为空表示网关前置有独立的认证层，网关自身不做校验
	AuthTokens []string `json:"auth_tokens,omitempty"`

	// 指标开关
	MetricsEnabled *bool `json:"metrics_enabled,omitempty"` // 是否暴露 /metrics（默认true）
}

// UserAuthorityConfig 用户签名机构配置
// 对应配置文件中的 authority 字段
// 签名机构是执行真实密码学运算的外部受信服务，网关所有签名判定均以其为准
type UserAuthorityConfig struct {
	// BaseURL 机构服务基础地址（必填项，工作流逻辑中不允许出现硬编码地址）
	BaseURL *string `json:"base_url,omitempty"`

	// TimeoutSeconds 单次上游调用超时（秒）
	// 网关不做重试，超时直接作为服务端故障向调用方透传
	TimeoutSeconds *int `json:"timeout_seconds,omitempty"`
}

// UserLogConfig 用户日志配置
type UserLogConfig struct {
	Level    *string `json:"level,omitempty"`     // 日志级别：debug, info, warn, error, fatal
	FilePath *string `json:"file_path,omitempty"` // 日志文件路径
}

// 配置辅助函数
// 这些函数帮助创建指针类型的配置值，区分"未设置"和"设置为零值"

// BoolPtr 创建bool指针，用于明确表示用户设置了该值
func BoolPtr(v bool) *bool {
	return &v
}

// IntPtr 创建int指针
func IntPtr(v int) *int {
	return &v
}

// StringPtr 创建string指针
func StringPtr(v string) *string {
	return &v
}
