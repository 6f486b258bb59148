package config

import (
	"github.com/esigngate/v1/internal/config/api"
	"github.com/esigngate/v1/internal/config/authority"
	logconfig "github.com/esigngate/v1/internal/config/log"
	"github.com/esigngate/v1/pkg/interfaces/config"
	"github.com/esigngate/v1/pkg/types"
	"go.uber.org/fx"
)

// ConfigParams 定义配置模块的依赖参数
type ConfigParams struct {
	fx.In

	// 应用配置选项
	AppOptions config.AppOptions `optional:"true"`
}

// ConfigOutput 定义配置模块的输出结构
type ConfigOutput struct {
	fx.Out

	// 配置提供者
	Provider config.Provider
}

// Module 返回配置模块
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			ProvideConfigServices,
			// 提供具体的配置类型用于依赖注入
			func(provider config.Provider) *api.APIOptions {
				return provider.GetAPI()
			},
			func(provider config.Provider) *authority.AuthorityOptions {
				return provider.GetAuthority()
			},
			func(provider config.Provider) *logconfig.LogOptions {
				return provider.GetLog()
			},
		),
	)
}

// ProvideConfigServices 提供配置服务
func ProvideConfigServices(params ConfigParams) (ConfigOutput, error) {
	// 从应用配置选项获取用户配置
	var appConfig *types.AppConfig
	if params.AppOptions != nil {
		appConfig = params.AppOptions.GetAppConfig()
	}

	// 机构配置是启动的硬前提，尽早校验避免带病运行
	provider := NewProvider(appConfig)
	if err := provider.GetAuthority().Validate(); err != nil {
		return ConfigOutput{}, err
	}

	return ConfigOutput{Provider: provider}, nil
}
