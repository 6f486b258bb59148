package config

import (
	apiconfig "github.com/esigngate/v1/internal/config/api"
	authorityconfig "github.com/esigngate/v1/internal/config/authority"
	logconfig "github.com/esigngate/v1/internal/config/log"
)

// Provider 配置提供者接口
// 各模块通过该接口获取自己的配置选项，
// 默认值处理在 internal/config/* 各子包内完成
type Provider interface {
	// GetAPI 获取API服务配置
	GetAPI() *apiconfig.APIOptions

	// GetAuthority 获取签名机构配置
	GetAuthority() *authorityconfig.AuthorityOptions

	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions
}
