package log

// 日志配置默认值
const (
	// defaultLogLevel 默认日志级别设为"info"
	// 原因：info级别平衡了信息量和性能，记录重要事件但不过于详细
	defaultLogLevel = "info"

	// defaultToConsole 默认启用控制台输出
	// 原因：开发和调试时需要实时查看日志；生产环境可通过配置禁用
	defaultToConsole = true

	// defaultFilePath 默认日志文件路径
	// 设为stdout时不写文件
	defaultFilePath = "stdout"

	// defaultMaxSize 单个日志文件最大大小设为100MB
	// 原因：适中的文件大小便于日志分析工具处理和传输
	defaultMaxSize = 100

	// defaultMaxBackups 最大备份文件数设为10
	// 原因：保留足够的历史记录用于问题排查，同时控制磁盘占用
	defaultMaxBackups = 10

	// defaultMaxAge 日志文件最大保留天数设为30天
	// 原因：覆盖大多数问题排查的时间窗口
	defaultMaxAge = 30

	// defaultCompress 默认压缩历史日志
	defaultCompress = true

	// defaultEnableCaller 默认记录调用位置
	defaultEnableCaller = true

	// defaultEnableStacktrace 默认关闭堆栈跟踪
	// 原因：网关的错误以透传机构诊断为主，堆栈对排查帮助有限且噪音大
	defaultEnableStacktrace = false
)

// createDefaultLogOptions 创建完整的默认日志配置
func createDefaultLogOptions() *LogOptions {
	return &LogOptions{
		Level:            defaultLogLevel,
		ToConsole:        defaultToConsole,
		FilePath:         defaultFilePath,
		MaxSize:          defaultMaxSize,
		MaxBackups:       defaultMaxBackups,
		MaxAge:           defaultMaxAge,
		Compress:         defaultCompress,
		EnableCaller:     defaultEnableCaller,
		EnableStacktrace: defaultEnableStacktrace,
	}
}
