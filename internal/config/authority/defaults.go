package authority

import "time"

// 签名机构默认配置值
const (
	// defaultBaseURL 机构服务默认地址
	// 原因：与标准部署拓扑一致，机构服务以固定服务名在同一内网可达；
	// 生产环境必须通过配置文件显式覆盖
	defaultBaseURL = "http://e-imzo-server:8080"

	// defaultTimeout 上游调用超时设为30秒
	// 原因：验真和时间戳操作在机构侧可能涉及证书链校验，
	// 30秒给足处理时间；网关不做重试，超时即向调用方报错
	defaultTimeout = 30 * time.Second

	// defaultMaxIdleConns 最大空闲连接数设为100
	// 原因：多个独立工作流可能同时在途，充足的连接池避免建连开销
	defaultMaxIdleConns = 100

	// defaultMaxIdleConnsPerHost 每主机最大空闲连接数设为10
	// 原因：机构通常是单一主机，10个常驻连接足以支撑正常并发
	defaultMaxIdleConnsPerHost = 10

	// defaultIdleConnTimeout 空闲连接超时设为90秒
	// 原因：与常见反向代理的keep-alive窗口对齐，避免复用已被对端关闭的连接
	defaultIdleConnTimeout = 90 * time.Second
)

// createDefaultAuthorityOptions 创建完整的默认机构配置
func createDefaultAuthorityOptions() *AuthorityOptions {
	return &AuthorityOptions{
		BaseURL:             defaultBaseURL,
		Timeout:             defaultTimeout,
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
	}
}
