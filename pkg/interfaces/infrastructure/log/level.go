package log

import "github.com/esigngate/v1/pkg/types"

// LogLevel 日志级别别名（定义在 pkg/types）
type LogLevel = types.LogLevel

// 级别常量别名
const (
	DebugLevel = types.DebugLevel
	InfoLevel  = types.InfoLevel
	WarnLevel  = types.WarnLevel
	ErrorLevel = types.ErrorLevel
	FatalLevel = types.FatalLevel
)
