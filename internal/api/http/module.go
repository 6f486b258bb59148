package http

import (
	"go.uber.org/fx"

	"github.com/esigngate/v1/pkg/interfaces/infrastructure/log"
)

// Module 返回HTTP服务模块
func Module() fx.Option {
	return fx.Options(
		// 提供HTTP服务器实例
		fx.Provide(NewServer),

		// 强制实例化服务器，确保生命周期钩子被注册
		fx.Invoke(func(server *Server, logger log.Logger) {
			logger.Info("HTTP API模块加载")
		}),
	)
}
