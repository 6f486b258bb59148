package app

import (
	"github.com/esigngate/v1/pkg/interfaces/config"
	"github.com/esigngate/v1/pkg/types"
)

// Option 应用程序选项函数类型
type Option func(*options)

// options 应用程序选项
// 实现config.AppOptions接口
type options struct {
	// 配置文件路径
	configFilePath string

	// 嵌入的配置内容（优先级高于configFilePath）
	embeddedConfig []byte

	// 用户配置
	appConfig *types.AppConfig

	// 命令行覆盖项，在配置文件解析之后应用（优先级最高）
	overrides []func(*types.AppConfig)

	// API支持开关 (默认启用)
	enableAPI bool
}

// 编译时校验options是否实现了config.AppOptions接口
var _ config.AppOptions = (*options)(nil)

// WithConfigFile 设置配置文件路径
func WithConfigFile(configPath string) Option {
	return func(o *options) {
		o.configFilePath = configPath
	}
}

// WithEmbeddedConfig 设置嵌入的配置内容（优先级高于WithConfigFile）
// 允许直接使用编译时嵌入的配置，无需创建临时文件
func WithEmbeddedConfig(configBytes []byte) Option {
	return func(o *options) {
		o.embeddedConfig = configBytes
	}
}

// WithAuthority 设置签名机构连接配置
func WithAuthority(userAuthorityConfig *types.UserAuthorityConfig) Option {
	return func(o *options) {
		o.overrides = append(o.overrides, func(cfg *types.AppConfig) {
			cfg.Authority = userAuthorityConfig
		})
	}
}

// WithAuthorityBaseURL 覆盖签名机构地址（命令行便捷入口）
func WithAuthorityBaseURL(baseURL string) Option {
	return func(o *options) {
		o.overrides = append(o.overrides, func(cfg *types.AppConfig) {
			if cfg.Authority == nil {
				cfg.Authority = &types.UserAuthorityConfig{}
			}
			cfg.Authority.BaseURL = types.StringPtr(baseURL)
		})
	}
}

// WithHTTPPort 覆盖HTTP监听端口（命令行便捷入口）
func WithHTTPPort(port int) Option {
	return func(o *options) {
		o.overrides = append(o.overrides, func(cfg *types.AppConfig) {
			if cfg.API == nil {
				cfg.API = &types.UserAPIConfig{}
			}
			cfg.API.HTTPPort = types.IntPtr(port)
		})
	}
}

// WithAPI 启用API模块
func WithAPI() Option {
	return func(o *options) {
		o.enableAPI = true
	}
}

// WithoutAPI 禁用API模块（仅用于测试场景）
func WithoutAPI() Option {
	return func(o *options) {
		o.enableAPI = false
	}
}

// newOptions 创建选项
func newOptions(opts ...Option) *options {
	options := &options{
		// 创建默认的空AppConfig
		appConfig: &types.AppConfig{},
		// API默认启用
		enableAPI: true,
	}

	// 应用自定义选项
	for _, opt := range opts {
		opt(options)
	}

	options.applyOverrides()

	return options
}

// applyOverrides 把命令行覆盖项应用到当前配置
// 配置文件重新解析后需要再次调用，保证覆盖项始终生效
func (o *options) applyOverrides() {
	if o.appConfig == nil {
		o.appConfig = &types.AppConfig{}
	}
	for _, override := range o.overrides {
		override(o.appConfig)
	}
}

// GetAppConfig 返回应用程序配置
func (o *options) GetAppConfig() *types.AppConfig {
	return o.appConfig
}
