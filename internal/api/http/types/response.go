// Package types provides HTTP response type definitions.
package types

import "encoding/json"

// ErrorResponse 统一错误响应格式
// 与机构生态的历史契约保持一致：{"success": false, "err_msg": ...}
// err_msg 承载机构的原始诊断载荷，从不压缩或隐藏——
// 调用方可能需要它来修正格式错误的签名
type ErrorResponse struct {
	Success bool        `json:"success"`
	ErrMsg  interface{} `json:"err_msg"`
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(errMsg interface{}) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		ErrMsg:  errMsg,
	}
}

// ComposeResponse 签名合成响应
type ComposeResponse struct {
	Success      bool            `json:"success"`
	Pkcs7B64     string          `json:"pkcs7b64"`               // 合并并加盖时间戳后的信封
	Verification json.RawMessage `json:"verification,omitempty"` // 机构的验真判定，原样透传
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status     string                 `json:"status"` // healthy, degraded
	Liveness   string                 `json:"liveness"`
	Readiness  string                 `json:"readiness"`
	Version    string                 `json:"version"`
	Uptime     string                 `json:"uptime"`
	Timestamp  string                 `json:"timestamp"`
	Components map[string]interface{} `json:"components"`
}
