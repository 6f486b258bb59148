package app

import (
	"context"
	"fmt"
	"time"

	httpapi "github.com/esigngate/v1/internal/api/http"
	config "github.com/esigngate/v1/internal/config"
	authorityimpl "github.com/esigngate/v1/internal/core/authority"
	log "github.com/esigngate/v1/internal/core/infrastructure/log"
	workflowimpl "github.com/esigngate/v1/internal/core/workflow"
	"go.uber.org/fx"
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts  *options
	fxApp *fx.App
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{
		opts: opts,
	}
}

// SetupInfrastructureLayer 设置基础设施层模块
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		config.Module(), // 1. 配置(不依赖其他)
		log.Module(),    // 2. 日志(依赖配置)
	}
}

// SetupServiceLayer 设置服务层模块
// 加载顺序遵循依赖关系：机构客户端 -> 工作流
func (b *Bootstrap) SetupServiceLayer() []fx.Option {
	return []fx.Option{
		authorityimpl.Module(), // 签名机构客户端(依赖配置和日志)
		workflowimpl.Module(),  // 签名工作流(依赖机构客户端)
	}
}

// SetupApplicationLayer 设置应用层模块
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	modules := []fx.Option{
		AppModule, // 应用核心模块
	}

	// 条件性添加API模块
	if b.opts.enableAPI {
		modules = append(modules, httpapi.Module())
	}

	return modules
}

// SetupModules 设置所有应用模块
func (b *Bootstrap) SetupModules() ([]fx.Option, error) {
	var allModules []fx.Option

	// 按照依赖顺序添加各层模块
	allModules = append(allModules, b.SetupInfrastructureLayer()...)
	allModules = append(allModules, b.SetupServiceLayer()...)
	allModules = append(allModules, b.SetupApplicationLayer()...)

	return allModules, nil
}

// CreateFxApp 创建并配置fx应用
func (b *Bootstrap) CreateFxApp() error {
	modules, err := b.SetupModules()
	if err != nil {
		return err
	}

	appOptions := []fx.Option{
		fx.Options(modules...),

		// 禁用fx内部日志
		fx.NopLogger,
	}

	b.fxApp = fx.New(appOptions...)
	return nil
}

// StartApp 启动应用程序
func (b *Bootstrap) StartApp(ctx context.Context) error {
	if err := b.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}

	return nil
}

// StopApp 停止应用程序
func (b *Bootstrap) StopApp(ctx context.Context) error {
	if err := b.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}

	return nil
}

// BootstrapApp 执行完整的引导过程并返回应用实例
func BootstrapApp(opts *options) (App, error) {
	bootstrap := NewBootstrap(opts)

	if err := bootstrap.CreateFxApp(); err != nil {
		return nil, fmt.Errorf("创建应用失败: %w", err)
	}

	// 带超时的启动，避免机构探测等初始化动作卡死
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer startupCancel()

	if err := bootstrap.StartApp(startupCtx); err != nil {
		return nil, err
	}

	return &internalApp{
		bootstrap: bootstrap,
	}, nil
}
