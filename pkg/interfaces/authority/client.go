// Package authority 定义上游签名机构客户端接口
//
// 🔏 **签名机构传输适配层 (Authority Transport Adapter)**
//
// 签名机构是执行真实密码学签名/验签的外部受信服务。
// 网关不在本地解析任何签名材料：信封（PKCS#7编码块）对网关完全不透明，
// 由机构产生、也只由机构消费。
//
// 客户端契约：
// - 每次调用恰好发出一次出站HTTP请求，无重试、无本地状态
// - 每次调用附带调用方身份头（Host / X-Real-IP）
// - 不解析响应：原始状态码和响应体原样交给上层，解释是工作流层的职责
package authority

import (
	"context"

	"github.com/esigngate/v1/pkg/types"
)

// Outcome 一次机构调用的结果
// 只在产生它的那次调用内有意义，不做任何保留
type Outcome struct {
	StatusCode int    // 机构返回的HTTP状态码
	Body       []byte // 机构原始响应体
}

// Client 签名机构客户端接口
// 实现必须支持多个请求并发调用（共享连接池为唯一共享资源）
type Client interface {
	// Challenge 获取签名挑战值（GET，无载荷）
	Challenge(ctx context.Context, identity types.CallerIdentity) (*Outcome, error)

	// Join 合并两个签名分片
	// 载荷为 first|second，分片顺序对机构有语义，必须与调用方提供的顺序一致
	Join(ctx context.Context, first, second string, identity types.CallerIdentity) (*Outcome, error)

	// Timestamp 为信封附加可信时间戳（载荷为原始信封）
	Timestamp(ctx context.Context, pkcs7 string, identity types.CallerIdentity) (*Outcome, error)

	// Verify 信封验真（载荷为原始信封）
	Verify(ctx context.Context, pkcs7 string, identity types.CallerIdentity) (*Outcome, error)
}
