package authority

import (
	authorityconfig "github.com/esigngate/v1/internal/config/authority"
	authorityiface "github.com/esigngate/v1/pkg/interfaces/authority"
	logiface "github.com/esigngate/v1/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
)

// Module 返回签名机构客户端模块
// 客户端在进程启动时显式构造一次，通过依赖注入传给工作流层，
// 不存在任何隐式全局实例
func Module() fx.Option {
	return fx.Module("authority",
		fx.Provide(
			func(options *authorityconfig.AuthorityOptions, logger logiface.Logger) authorityiface.Client {
				return NewClient(options, logger)
			},
		),
	)
}
