// Package authority 提供签名机构连接配置
package authority

import (
	"fmt"
	"strings"
	"time"

	"github.com/esigngate/v1/pkg/types"
)

// AuthorityOptions 签名机构配置选项
// 机构基础地址是必需的启动配置，工作流逻辑中不允许出现硬编码地址
type AuthorityOptions struct {
	// BaseURL 机构服务基础地址，各操作路径相对于该地址拼接
	BaseURL string `json:"base_url"`

	// Timeout 单次上游调用超时
	// 网关不做重试：挂起的机构调用只拖住所属请求，不影响其他并发请求
	Timeout time.Duration `json:"timeout"`

	// 连接池配置（所有并发请求共享同一出站连接池）
	MaxIdleConns        int           `json:"max_idle_conns"`          // 最大空闲连接数
	MaxIdleConnsPerHost int           `json:"max_idle_conns_per_host"` // 每主机最大空闲连接数
	IdleConnTimeout     time.Duration `json:"idle_conn_timeout"`       // 空闲连接超时
}

// Config 签名机构配置实现
type Config struct {
	options *AuthorityOptions
}

// New 创建签名机构配置实现
func New(userConfig *types.UserAuthorityConfig) *Config {
	options := createDefaultAuthorityOptions()

	if userConfig != nil {
		if userConfig.BaseURL != nil {
			options.BaseURL = strings.TrimRight(*userConfig.BaseURL, "/")
		}
		if userConfig.TimeoutSeconds != nil {
			options.Timeout = time.Duration(*userConfig.TimeoutSeconds) * time.Second
		}
	}

	return &Config{options: options}
}

// GetOptions 获取签名机构配置选项
func (c *Config) GetOptions() *AuthorityOptions {
	return c.options
}

// Validate 校验机构配置
// 基础地址必须存在且为http(s)地址
func (o *AuthorityOptions) Validate() error {
	if o.BaseURL == "" {
		return fmt.Errorf("authority base_url 未配置")
	}
	if !strings.HasPrefix(o.BaseURL, "http://") && !strings.HasPrefix(o.BaseURL, "https://") {
		return fmt.Errorf("authority base_url 必须以 http:// 或 https:// 开头: %s", o.BaseURL)
	}
	return nil
}
