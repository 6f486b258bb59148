// Package workflow 定义签名工作流接口
package workflow

import (
	"context"
	"encoding/json"

	"github.com/esigngate/v1/pkg/types"
)

// Workflow 签名工作流接口
//
// 每个操作是一个覆盖机构调用的短线性状态机，
// 同一工作流调用内各阶段严格串行：后一阶段消费前一阶段产出的信封。
// 任一阶段失败立即中止，绝不把部分成功上报为成功。
type Workflow interface {
	// Join 合并两个签名分片，返回合并后的信封
	// 机构响应缺失信封字段时返回空串（不视为错误）
	Join(ctx context.Context, first, second string, identity types.CallerIdentity) (string, error)

	// Timestamp 为信封附加时间戳，返回新信封
	// 机构返回200但缺失信封字段时返回 *types.AmbiguousSuccessError
	Timestamp(ctx context.Context, pkcs7 string, identity types.CallerIdentity) (string, error)

	// Verify 信封验真，机构的判定结果原样透传
	Verify(ctx context.Context, pkcs7 string, identity types.CallerIdentity) (json.RawMessage, error)

	// JoinAndStamp 组合操作：Join → Timestamp，快速失败
	JoinAndStamp(ctx context.Context, first, second string, identity types.CallerIdentity) (string, error)
}
