package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/esigngate/v1/internal/api/http/handlers"
	"github.com/esigngate/v1/internal/api/http/middleware"
	"github.com/esigngate/v1/pkg/interfaces/authority"
	"github.com/esigngate/v1/pkg/interfaces/config"
	"github.com/esigngate/v1/pkg/interfaces/infrastructure/log"
	"github.com/esigngate/v1/pkg/interfaces/workflow"
)

// Server HTTP服务器结构
// 负责对外提供签名网关的HTTP API：
// 验真、合成、挑战获取与健康检查
type Server struct {
	router     *gin.Engine       // Gin路由引擎，处理HTTP请求和路由分发
	httpServer *http.Server      // 标准HTTP服务器，提供HTTP监听功能
	config     config.Provider   // 配置提供者，用于获取API配置
	appOptions config.AppOptions // 应用配置（版本号等）
	logger     log.Logger        // 日志记录器
	workflow   workflow.Workflow // 签名工作流服务
	client     authority.Client  // 签名机构客户端（健康探测、挑战透传）
}

// NewServer 创建新的HTTP服务器
// 该函数在fx框架的依赖注入系统中注册，会自动接收所需依赖
// 并负责服务器的初始化和生命周期管理
func NewServer(
	lifecycle fx.Lifecycle,
	cfg config.Provider,
	appOptions config.AppOptions,
	logger log.Logger,
	wf workflow.Workflow,
	client authority.Client,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router:     router,
		config:     cfg,
		appOptions: appOptions,
		logger:     logger,
		workflow:   wf,
		client:     client,
	}

	// 注册服务生命周期钩子
	// fx启动时调用Start，停止时调用Stop
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})

	server.setupMiddlewares()
	server.setupRoutes()

	return server
}

// setupMiddlewares 装配中间件链
// 顺序：恢复 -> 请求ID -> 日志 -> 指标 -> 限流
// 认证中间件只挂在合成端点上（见 setupRoutes）
func (s *Server) setupMiddlewares() {
	httpOptions := s.config.GetAPI().HTTP
	zl := s.logger.GetZapLogger()

	s.router.Use(middleware.NewRequestID().Middleware())
	s.router.Use(middleware.NewLogger(s.logger).Middleware())

	if httpOptions.MetricsEnabled {
		s.router.Use(middleware.NewMetrics(zl).Middleware())
	}

	s.router.Use(middleware.NewRateLimit(zl, httpOptions.RateLimitRead, httpOptions.RateLimitWrite).Middleware())
}

// setupRoutes 设置HTTP路由
func (s *Server) setupRoutes() {
	httpOptions := s.config.GetAPI().HTTP

	version := ""
	if appConfig := s.appOptions.GetAppConfig(); appConfig != nil && appConfig.Version != nil {
		version = *appConfig.Version
	}

	// 健康检查挂在根路径，不走API版本前缀
	healthHandler := handlers.NewHealthHandler(s.client, version)
	healthHandler.RegisterRoutes(s.router)

	// Prometheus指标端点
	if httpOptions.MetricsEnabled {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// API版本前缀，便于将来版本升级和兼容性管理
	v1 := s.router.Group("/api/v1")

	authGuard := middleware.NewAuth(s.logger.GetZapLogger(), httpOptions.AuthTokens).Middleware()

	signatureHandler := handlers.NewSignatureHandler(s.workflow, s.client, s.logger)
	signatureHandler.RegisterRoutes(v1, authGuard)

	s.logger.Info("HTTP路由注册完成")
}

// Start 启动HTTP服务器
func (s *Server) Start() error {
	httpOptions := s.config.GetAPI().HTTP

	if !httpOptions.Enabled {
		s.logger.Info("HTTP API在配置中被禁用，跳过启动")
		return nil
	}

	addr := fmt.Sprintf("%s:%d", httpOptions.Host, httpOptions.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  httpOptions.ReadTimeout,
		WriteTimeout: httpOptions.WriteTimeout,
		IdleTimeout:  httpOptions.IdleTimeout,
	}

	go func() {
		// ListenAndServe会阻塞直到服务器关闭
		// 正常关闭时返回http.ErrServerClosed，不视为错误
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("HTTP服务器运行失败: %v", err)
		}
	}()

	s.logger.Infof("HTTP服务器已启动: %s", addr)
	return nil
}

// Stop 停止HTTP服务器
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("正在关闭HTTP服务器")

	// 带超时的关闭，防止活跃连接拖住退出流程
	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(stopCtx); err != nil {
		s.logger.Errorf("HTTP服务器关闭出错: %v", err)
		return err
	}

	s.logger.Info("HTTP服务器已关闭")
	return nil
}
