package types

// CallerIdentity 调用方网络身份
// 每个入站请求解析一次，在整个工作流调用期间保持不变：
// 同一逻辑操作内的每次上游调用必须携带一致的身份头
type CallerIdentity struct {
	// DeclaredHost 入站请求声明的Host，原样透传，不做校验和DNS解析
	DeclaredHost string

	// SourceIP 解析出的调用方源IP
	// 优先取代理转发头，其次取传输层对端地址，两者皆无时为 UnknownSource
	SourceIP string
}

// UnknownSource 无法解析调用方源IP时使用的哨兵值
const UnknownSource = "Unknown"
