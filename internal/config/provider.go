// Package config 提供应用配置管理功能
package config

import (
	"github.com/esigngate/v1/internal/config/api"
	"github.com/esigngate/v1/internal/config/authority"
	logconfig "github.com/esigngate/v1/internal/config/log"
	"github.com/esigngate/v1/pkg/interfaces/config"
	"github.com/esigngate/v1/pkg/types"
)

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// 编译时校验Provider实现了config.Provider接口
var _ config.Provider = (*Provider)(nil)

// NewProvider 创建配置提供者
func NewProvider(appConfig *types.AppConfig) config.Provider {
	return &Provider{
		appConfig: appConfig,
	}
}

// GetAPI 获取API服务配置
func (p *Provider) GetAPI() *api.APIOptions {
	// 直接传递用户API配置给api.New，由它处理默认值和覆盖
	var userAPIConfig *types.UserAPIConfig
	if p.appConfig != nil && p.appConfig.API != nil {
		userAPIConfig = p.appConfig.API
	}

	return api.New(userAPIConfig).GetOptions()
}

// GetAuthority 获取签名机构配置
func (p *Provider) GetAuthority() *authority.AuthorityOptions {
	var userAuthorityConfig *types.UserAuthorityConfig
	if p.appConfig != nil && p.appConfig.Authority != nil {
		userAuthorityConfig = p.appConfig.Authority
	}

	return authority.New(userAuthorityConfig).GetOptions()
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *logconfig.LogOptions {
	var userLogConfig *types.UserLogConfig
	if p.appConfig != nil && p.appConfig.Log != nil {
		userLogConfig = p.appConfig.Log
	}

	return logconfig.New(userLogConfig).GetOptions()
}
