// Package workflow 实现签名组合与验真工作流
//
// 🔗 **签名工作流协议核心 (Signature Workflow Core)**
//
// 每个操作是一个覆盖机构调用的短线性状态机：
//
//	Join:      Start → Requested → {Joined, Rejected}
//	Timestamp: Start → Requested → {Accepted, Accepted-but-invalid, Rejected}
//	Verify:    Start → Requested → {Verified, Rejected}
//
// 约束：
// - 同一工作流调用内各阶段严格串行，后一阶段消费前一阶段产出的信封
// - 任一阶段非200立即中止链条，部分成功绝不上报为成功
// - 信封从不原地修改，每个阶段产出新的信封值
// - 调用方身份在所有阶段保持同一个值
// - 机构的原始诊断载荷始终透传给调用方，从不吞掉
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	authorityiface "github.com/esigngate/v1/pkg/interfaces/authority"
	logiface "github.com/esigngate/v1/pkg/interfaces/infrastructure/log"
	workflowiface "github.com/esigngate/v1/pkg/interfaces/workflow"
	"github.com/esigngate/v1/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// stageOutcomes 各阶段结果计数
// 标签：stage=join|timestamp|verify, outcome=accepted|rejected|ambiguous|transport_error
var stageOutcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "esg",
		Subsystem: "workflow",
		Name:      "stage_outcomes_total",
		Help:      "Total number of workflow stage outcomes by stage and result",
	},
	[]string{"stage", "outcome"},
)

// Service 签名工作流实现
type Service struct {
	client authorityiface.Client
	logger logiface.Logger
}

// 编译时校验Service实现了workflow.Workflow接口
var _ workflowiface.Workflow = (*Service)(nil)

// NewService 创建签名工作流
// 机构客户端由外部构造并注入，工作流自身不持有可变状态，
// 可安全地被多个并发请求共享
func NewService(client authorityiface.Client, logger logiface.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// Join 合并两个签名分片
//
// 分片顺序与调用方提供的一致。机构返回200时从载荷中提取信封字段；
// 字段缺失在此阶段被容忍，返回空串而非错误，该行为与Timestamp阶段刻意不同
func (s *Service) Join(ctx context.Context, first, second string, identity types.CallerIdentity) (string, error) {
	outcome, err := s.client.Join(ctx, first, second, identity)
	if err != nil {
		stageOutcomes.WithLabelValues(string(types.StageJoin), "transport_error").Inc()
		return "", err
	}

	if outcome.StatusCode != http.StatusOK {
		stageOutcomes.WithLabelValues(string(types.StageJoin), "rejected").Inc()
		return "", s.rejected(types.StageJoin, outcome)
	}

	envelope, _, err := extractEnvelope(outcome.Body)
	if err != nil {
		stageOutcomes.WithLabelValues(string(types.StageJoin), "rejected").Inc()
		return "", fmt.Errorf("join response: %w", err)
	}

	stageOutcomes.WithLabelValues(string(types.StageJoin), "accepted").Inc()
	return envelope, nil
}

// Timestamp 为信封附加可信时间戳
//
// 机构返回200但缺失信封字段时产生 *types.AmbiguousSuccessError：
// 这是与硬拒绝不同的独立结果，调用方必须能分辨
// "机构说不行"和"机构说行但什么都没给"
func (s *Service) Timestamp(ctx context.Context, pkcs7 string, identity types.CallerIdentity) (string, error) {
	outcome, err := s.client.Timestamp(ctx, pkcs7, identity)
	if err != nil {
		stageOutcomes.WithLabelValues(string(types.StageTimestamp), "transport_error").Inc()
		return "", err
	}

	if outcome.StatusCode != http.StatusOK {
		stageOutcomes.WithLabelValues(string(types.StageTimestamp), "rejected").Inc()
		return "", s.rejected(types.StageTimestamp, outcome)
	}

	envelope, payload, err := extractEnvelope(outcome.Body)
	if err != nil {
		stageOutcomes.WithLabelValues(string(types.StageTimestamp), "rejected").Inc()
		return "", fmt.Errorf("timestamp response: %w", err)
	}

	if envelope == "" {
		stageOutcomes.WithLabelValues(string(types.StageTimestamp), "ambiguous").Inc()
		s.logWarn(types.StageTimestamp, "机构接受了时间戳请求但未返回信封", identity)
		return "", &types.AmbiguousSuccessError{
			Stage:   types.StageTimestamp,
			Payload: payload,
		}
	}

	stageOutcomes.WithLabelValues(string(types.StageTimestamp), "accepted").Inc()
	return envelope, nil
}

// Verify 信封验真
//
// 机构是信任根：200时其判定结果原样透传，网关不重新解释验真语义
func (s *Service) Verify(ctx context.Context, pkcs7 string, identity types.CallerIdentity) (json.RawMessage, error) {
	outcome, err := s.client.Verify(ctx, pkcs7, identity)
	if err != nil {
		stageOutcomes.WithLabelValues(string(types.StageVerify), "transport_error").Inc()
		return nil, err
	}

	if outcome.StatusCode != http.StatusOK {
		stageOutcomes.WithLabelValues(string(types.StageVerify), "rejected").Inc()
		return nil, s.rejected(types.StageVerify, outcome)
	}

	if !json.Valid(outcome.Body) {
		stageOutcomes.WithLabelValues(string(types.StageVerify), "rejected").Inc()
		return nil, fmt.Errorf("verify response: invalid json from authority")
	}

	stageOutcomes.WithLabelValues(string(types.StageVerify), "accepted").Inc()
	return json.RawMessage(outcome.Body), nil
}

// JoinAndStamp 组合操作：Join → Timestamp
//
// 合并产出的信封直接送入时间戳阶段，两个阶段使用同一个身份值。
// 任一阶段失败立即中止，不触发后续阶段
func (s *Service) JoinAndStamp(ctx context.Context, first, second string, identity types.CallerIdentity) (string, error) {
	joined, err := s.Join(ctx, first, second, identity)
	if err != nil {
		return "", err
	}

	return s.Timestamp(ctx, joined, identity)
}

// rejected 构造阶段拒绝错误并记录
func (s *Service) rejected(stage types.WorkflowStage, outcome *authorityiface.Outcome) error {
	zl := s.logger.GetZapLogger()
	if zl != nil {
		zl.Warn("authority rejected stage",
			zap.String("stage", string(stage)),
			zap.Int("status", outcome.StatusCode),
		)
	}
	return &types.StageRejectedError{
		Stage:  stage,
		Status: outcome.StatusCode,
		Detail: outcome.Body,
	}
}

func (s *Service) logWarn(stage types.WorkflowStage, msg string, identity types.CallerIdentity) {
	zl := s.logger.GetZapLogger()
	if zl != nil {
		zl.Warn(msg,
			zap.String("stage", string(stage)),
			zap.String("caller_ip", identity.SourceIP),
		)
	}
}

// extractEnvelope 从机构的200响应中提取信封字段
// 返回信封（可能为空串）和完整载荷
func extractEnvelope(body []byte) (string, json.RawMessage, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", nil, fmt.Errorf("decode authority payload: %w", err)
	}

	raw, ok := payload[types.EnvelopeField]
	if !ok {
		return "", json.RawMessage(body), nil
	}

	var envelope string
	if err := json.Unmarshal(raw, &envelope); err != nil {
		// 字段存在但不是字符串（如 false），按缺失处理
		return "", json.RawMessage(body), nil
	}

	return envelope, json.RawMessage(body), nil
}
