package types

import (
	"encoding/json"
	"fmt"
)

// WorkflowStage 签名工作流阶段
// 每个阶段对应一次上游机构调用
type WorkflowStage string

const (
	// StageJoin 两个签名分片合并为单一信封
	StageJoin WorkflowStage = "join"
	// StageTimestamp 为信封附加可信时间戳
	StageTimestamp WorkflowStage = "timestamp"
	// StageVerify 信封验真
	StageVerify WorkflowStage = "verify"
)

// EnvelopeField 机构响应中承载新信封的字段名
const EnvelopeField = "pkcs7b64"

// StageRejectedError 上游机构在某一阶段返回非成功状态
// 携带阶段名和机构的原始响应体：机构对签名有效性拥有最终裁决权，
// 因此该错误向调用方呈现为校验类错误而非服务端故障，
// 原始诊断信息始终透传，不做压缩或隐藏
type StageRejectedError struct {
	Stage  WorkflowStage // 失败阶段
	Status int           // 机构返回的HTTP状态码
	Detail []byte        // 机构原始响应体
}

func (e *StageRejectedError) Error() string {
	return fmt.Sprintf("authority rejected %s stage: http %d: %s", e.Stage, e.Status, e.Detail)
}

// AmbiguousSuccessError 机构返回成功状态但缺失预期的结果字段
// 与硬拒绝（StageRejectedError）是两种必须可区分的结果：
// 调用方需要分辨"机构说不行"和"机构说行但什么都没给"
type AmbiguousSuccessError struct {
	Stage   WorkflowStage   // 出现歧义的阶段
	Payload json.RawMessage // 机构返回的完整载荷
}

func (e *AmbiguousSuccessError) Error() string {
	return fmt.Sprintf("authority accepted %s stage but returned no %s field", e.Stage, EnvelopeField)
}
