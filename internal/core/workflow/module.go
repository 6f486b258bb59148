package workflow

import (
	authorityiface "github.com/esigngate/v1/pkg/interfaces/authority"
	logiface "github.com/esigngate/v1/pkg/interfaces/infrastructure/log"
	workflowiface "github.com/esigngate/v1/pkg/interfaces/workflow"
	"go.uber.org/fx"
)

// Module 返回签名工作流模块
func Module() fx.Option {
	return fx.Module("workflow",
		fx.Provide(
			func(client authorityiface.Client, logger logiface.Logger) workflowiface.Workflow {
				return NewService(client, logger)
			},
		),
	)
}
