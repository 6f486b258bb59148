// Package identity 提供调用方网络身份解析
//
// 网关将调用方身份透传给签名机构（Host / X-Real-IP头），
// 机构依赖这些头做审计和访问策略。身份在每个入站请求上解析一次，
// 之后作为显式参数贯穿工作流的每一个阶段，绝不从环境上下文中二次恢复。
package identity

import (
	"net"
	"net/http"
	"strings"

	"github.com/esigngate/v1/pkg/types"
)

// 代理转发的源IP头
const realIPHeader = "X-Real-IP"

// Resolve 从入站请求解析调用方身份
//
// 解析策略：
// - 源IP优先取 X-Real-IP 头（反向代理注入），非空即采用
// - 否则回退到传输层对端地址（RemoteAddr的host部分）
// - 两者皆无时使用哨兵值 types.UnknownSource
// - 声明Host原样取自请求，不做校验，不做DNS解析
//
// 纯函数：无副作用、无I/O，永远返回一个可用的身份值
func Resolve(r *http.Request) types.CallerIdentity {
	return types.CallerIdentity{
		DeclaredHost: r.Host,
		SourceIP:     resolveSourceIP(r),
	}
}

// resolveSourceIP 解析调用方源IP
func resolveSourceIP(r *http.Request) string {
	if realIP := strings.TrimSpace(r.Header.Get(realIPHeader)); realIP != "" {
		return realIP
	}

	if r.RemoteAddr != "" {
		// RemoteAddr形如 "ip:port"，仅保留host部分
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return host
		}
		// 非 host:port 形态（测试或非常规传输），原样采用
		return r.RemoteAddr
	}

	return types.UnknownSource
}
