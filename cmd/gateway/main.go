package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/esigngate/v1/configs"
	"github.com/esigngate/v1/internal/app"
	"github.com/esigngate/v1/internal/app/version"
)

// 命令行标志
var (
	configPath   string
	httpPort     int
	authorityURL string
	environment  string
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "esigngate",
	Short: "电子签名网关服务",
	Long: `esigngate - 电子签名网关

在调用方与外部签名机构之间转发签名操作：
- 签名分片合并与时间戳加盖
- 签名信封验真
- 签名挑战值获取

网关不在本地执行任何密码学运算，所有签名判定均以机构为准。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGateway()
	},
}

// versionCmd 版本子命令
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.GetFullVersion())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "配置文件路径 (默认: configs/config.json)")
	rootCmd.Flags().IntVarP(&httpPort, "port", "p", 0, "HTTP监听端口 (覆盖配置文件)")
	rootCmd.Flags().StringVar(&authorityURL, "authority-url", "", "签名机构地址 (覆盖配置文件)")
	rootCmd.Flags().StringVar(&environment, "env", "", "使用内置环境配置: development|production")

	rootCmd.AddCommand(versionCmd)
}

// runGateway 组装启动选项并运行网关
func runGateway() error {
	var options []app.Option

	// 内置环境配置优先于外部配置文件
	switch environment {
	case "development":
		options = append(options, app.WithEmbeddedConfig(configs.GetDevelopmentConfig()))
	case "production":
		options = append(options, app.WithEmbeddedConfig(configs.GetProductionConfig()))
	case "":
		// 未指定环境，走配置文件路径
	default:
		return fmt.Errorf("未知环境: %s (支持 development|production)", environment)
	}

	if configPath != "" {
		options = append(options, app.WithConfigFile(configPath))
	}

	// 命令行覆盖项
	if httpPort > 0 {
		options = append(options, app.WithHTTPPort(httpPort))
	}
	if authorityURL != "" {
		options = append(options, app.WithAuthorityBaseURL(authorityURL))
	}

	gateway, err := app.Start(options...)
	if err != nil {
		return fmt.Errorf("启动网关失败: %w", err)
	}

	// 阻塞直到收到退出信号
	gateway.Wait()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
