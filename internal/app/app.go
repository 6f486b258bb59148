package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/esigngate/v1/pkg/interfaces/config"
	"github.com/esigngate/v1/pkg/types"
	"go.uber.org/fx"
)

// AppModule 应用模块定义
var AppModule = fx.Options(
	// 提供应用配置选项，供config模块使用
	fx.Provide(ProvideAppOptions),
)

// 由Start设置，供ProvideAppOptions读取
var bootstrapOptions *options

// ProvideAppOptions 提供应用配置选项实例
// 为依赖注入系统提供config.AppOptions接口的实现
func ProvideAppOptions() config.AppOptions {
	opts := bootstrapOptions
	if opts == nil {
		opts = newOptions()
	}

	// 嵌入配置优先于文件配置
	if len(opts.embeddedConfig) > 0 {
		if appConfig, err := parseConfig(opts.embeddedConfig); err == nil {
			opts.appConfig = appConfig
			opts.applyOverrides()
			return opts
		} else {
			fmt.Printf("解析嵌入配置失败: %v，回退到文件配置\n", err)
		}
	}

	return loadConfigFromFile(opts)
}

// 配置文件结构说明
//
// 零值陷阱处理：
// 为了区分"用户未设置"和"用户设置为零值"，配置字段使用指针类型：
// - nil: 用户未在配置文件中设置该字段，使用系统默认值
// - &value: 用户明确设置了该值，即使是零值（如0、false、""）也会被采用

// loadConfigFromFile 从配置文件加载配置（支持自定义路径）
func loadConfigFromFile(opts *options) config.AppOptions {
	configPath := getConfigFilePath(opts)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("配置文件 %s 不存在，使用默认配置\n", configPath)
		return opts
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		fmt.Printf("读取配置文件失败: %v，使用默认配置\n", err)
		return opts
	}

	appConfig, err := parseConfig(data)
	if err != nil {
		fmt.Printf("解析配置文件失败: %v，使用默认配置\n", err)
		return opts
	}

	fmt.Printf("已成功加载配置文件: %s\n", configPath)
	opts.appConfig = appConfig
	opts.applyOverrides()

	// 根据配置自动创建日志目录
	if err := createLogDirectory(opts); err != nil {
		fmt.Printf("创建日志目录失败: %v\n", err)
		// 不返回错误，允许系统继续运行
	}

	return opts
}

// parseConfig 解析JSON配置为标准的AppConfig结构
func parseConfig(data []byte) (*types.AppConfig, error) {
	var appConfig types.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return nil, err
	}
	return &appConfig, nil
}

// createLogDirectory 根据配置自动创建日志目录
func createLogDirectory(opts config.AppOptions) error {
	appConfig := opts.GetAppConfig()
	if appConfig == nil || appConfig.Log == nil || appConfig.Log.FilePath == nil {
		return nil
	}

	logPath := *appConfig.Log.FilePath
	if logPath == "" || logPath == "stdout" || logPath == "stderr" {
		return nil
	}

	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("创建目录 %s 失败: %v", logDir, err)
	}

	return nil
}

// App 是签名网关应用的对外接口
type App interface {
	// Stop 停止应用
	Stop() error

	// Wait 等待应用收到退出信号
	Wait()
}

// internalApp 网关应用的内部实现
type internalApp struct {
	bootstrap *Bootstrap
}

// Stop 停止应用
func (a *internalApp) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.bootstrap.StopApp(ctx)
}

// Wait 等待应用收到退出信号
func (a *internalApp) Wait() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	sig := <-signals
	fmt.Printf("\n收到信号 %v，正在优雅退出...\n", sig)

	if err := a.Stop(); err != nil {
		fmt.Printf("停止应用时出错: %v\n", err)
	}
}

// Start 启动签名网关应用
func Start(appOptions ...Option) (App, error) {
	opts := newOptions(appOptions...)
	bootstrapOptions = opts

	return BootstrapApp(opts)
}

// getConfigFilePath 获取配置文件路径
func getConfigFilePath(opts *options) string {
	// 1. 优先使用环境变量 ESG_CONFIG_PATH
	if envPath := os.Getenv("ESG_CONFIG_PATH"); envPath != "" {
		return envPath
	}

	// 2. 其次使用选项中指定的路径
	if opts != nil && opts.configFilePath != "" {
		return opts.configFilePath
	}

	// 3. 最后使用默认配置路径
	return "configs/config.json"
}
