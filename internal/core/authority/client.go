// Package authority 实现签名机构HTTP客户端
package authority

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	authorityconfig "github.com/esigngate/v1/internal/config/authority"
	authorityiface "github.com/esigngate/v1/pkg/interfaces/authority"
	logiface "github.com/esigngate/v1/pkg/interfaces/infrastructure/log"
	"github.com/esigngate/v1/pkg/types"
	"go.uber.org/zap"
)

// 机构固定操作路径，相对于配置的基础地址
const (
	challengePath = "/frontend/challenge"
	joinPath      = "/frontend/pkcs7/join"
	timestampPath = "/frontend/timestamp/pkcs7"
	verifyPath    = "/backend/pkcs7/verify/attached"
)

// 分片拼接分隔符，分片顺序对机构有语义
const fragmentDelimiter = "|"

// Client 签名机构HTTP客户端
// 无状态传输适配器：每次调用恰好一次出站请求，不重试、不解析响应，
// 原始状态码和响应体交给工作流层解释
type Client struct {
	options    *authorityconfig.AuthorityOptions
	httpClient *http.Client
	logger     logiface.Logger
}

// 编译时校验Client实现了authority.Client接口
var _ authorityiface.Client = (*Client)(nil)

// NewClient 创建签名机构客户端
// 连接池是唯一的跨请求共享资源，http.Client本身并发安全
func NewClient(options *authorityconfig.AuthorityOptions, logger logiface.Logger) *Client {
	return &Client{
		options: options,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: options.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        options.MaxIdleConns,
				MaxIdleConnsPerHost: options.MaxIdleConnsPerHost,
				IdleConnTimeout:     options.IdleConnTimeout,
			},
		},
	}
}

// Challenge 获取签名挑战值
func (c *Client) Challenge(ctx context.Context, identity types.CallerIdentity) (*authorityiface.Outcome, error) {
	return c.do(ctx, http.MethodGet, challengePath, "", identity)
}

// Join 合并两个签名分片
// 载荷为 first|second，顺序与调用方提供的一致，不重排、不去重
func (c *Client) Join(ctx context.Context, first, second string, identity types.CallerIdentity) (*authorityiface.Outcome, error) {
	payload := first + fragmentDelimiter + second
	return c.do(ctx, http.MethodPost, joinPath, payload, identity)
}

// Timestamp 为信封附加可信时间戳
func (c *Client) Timestamp(ctx context.Context, pkcs7 string, identity types.CallerIdentity) (*authorityiface.Outcome, error) {
	return c.do(ctx, http.MethodPost, timestampPath, pkcs7, identity)
}

// Verify 信封验真
func (c *Client) Verify(ctx context.Context, pkcs7 string, identity types.CallerIdentity) (*authorityiface.Outcome, error) {
	return c.do(ctx, http.MethodPost, verifyPath, pkcs7, identity)
}

// do 执行一次机构调用
// 每次调用都附带身份头：Host取调用方声明的主机，X-Real-IP取解析出的源IP
func (c *Client) do(ctx context.Context, method, path, payload string, identity types.CallerIdentity) (*authorityiface.Outcome, error) {
	var bodyReader io.Reader
	if payload != "" {
		bodyReader = strings.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.options.BaseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Host是请求级属性，必须通过req.Host设置，写Header会被net/http忽略
	if identity.DeclaredHost != "" {
		req.Host = identity.DeclaredHost
	}
	req.Header.Set("X-Real-IP", identity.SourceIP)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// 传输层故障对请求是致命的：不重试，直接向上传播
		return nil, fmt.Errorf("authority %s: %w", path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warnf("关闭机构响应体失败: %v", cerr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("authority %s: read body: %w", path, err)
	}

	zl := c.logger.GetZapLogger()
	if zl != nil {
		zl.Debug("authority call",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", resp.StatusCode),
			zap.String("caller_ip", identity.SourceIP),
		)
	}

	return &authorityiface.Outcome{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
