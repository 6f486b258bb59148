package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	httptypes "github.com/esigngate/v1/internal/api/http/types"
	"github.com/esigngate/v1/internal/core/identity"
	"github.com/esigngate/v1/pkg/interfaces/authority"
	infralog "github.com/esigngate/v1/pkg/interfaces/infrastructure/log"
	"github.com/esigngate/v1/pkg/interfaces/workflow"
	"github.com/esigngate/v1/pkg/types"
	"go.uber.org/zap"
)

// SignatureHandler 签名网关处理器
// 对外暴露验真、合成、挑战获取三个操作，
// 调用方身份（Host + 源IP）逐请求解析后透传给签名机构
type SignatureHandler struct {
	workflow workflow.Workflow
	client   authority.Client
	logger   infralog.Logger
}

// NewSignatureHandler 创建签名处理器
func NewSignatureHandler(wf workflow.Workflow, client authority.Client, logger infralog.Logger) *SignatureHandler {
	return &SignatureHandler{
		workflow: wf,
		client:   client,
		logger:   logger,
	}
}

// RegisterRoutes 注册路由
func (h *SignatureHandler) RegisterRoutes(group *gin.RouterGroup, authGuard gin.HandlerFunc) {
	group.GET("/challenge", h.Challenge)
	group.POST("/pkcs7/verify", h.VerifyPkcs7)

	// 合成接口会触发多次上游调用，需要认证保护
	if authGuard != nil {
		group.POST("/pkcs7/compose", authGuard, h.ComposePkcs7)
	} else {
		group.POST("/pkcs7/compose", h.ComposePkcs7)
	}
}

// Challenge 获取签名挑战
// GET /api/v1/challenge
// 透传签名机构的挑战响应，客户端用其发起本地签名
func (h *SignatureHandler) Challenge(c *gin.Context) {
	caller := identity.Resolve(c.Request)

	outcome, err := h.client.Challenge(c.Request.Context(), caller)
	if err != nil {
		h.upstreamUnavailable(c, err)
		return
	}

	// 纯透传：机构的状态码和响应体原样返回
	c.Data(outcome.StatusCode, "application/json", outcome.Body)
}

// VerifyPkcs7 验证附加签名的PKCS7信封
// POST /api/v1/pkcs7/verify
// 请求体：{"pkcs7b64": "..."}
// 成功时原样返回签名机构的校验结果
func (h *SignatureHandler) VerifyPkcs7(c *gin.Context) {
	var req httptypes.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httptypes.NewErrorResponse("invalid request body"))
		return
	}

	// 字段缺失直接拒绝，不触发任何上游调用
	if req.Pkcs7B64 == nil || *req.Pkcs7B64 == "" {
		c.JSON(http.StatusBadRequest, httptypes.NewErrorResponse("pkcs7b64 field is required"))
		return
	}

	caller := identity.Resolve(c.Request)

	verification, err := h.workflow.Verify(c.Request.Context(), *req.Pkcs7B64, caller)
	if err != nil {
		h.renderWorkflowError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json", verification)
}

// ComposePkcs7 合成双方签名并打时间戳
// POST /api/v1/pkcs7/compose
// 请求体：{"pkcs7b64_first": "...", "pkcs7b64_second": "..."}
// 完整流程：合并两份签名 -> 加盖时间戳 -> 校验最终信封
func (h *SignatureHandler) ComposePkcs7(c *gin.Context) {
	var req httptypes.ComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httptypes.NewErrorResponse("invalid request body"))
		return
	}

	if req.Pkcs7B64First == nil || *req.Pkcs7B64First == "" {
		c.JSON(http.StatusBadRequest, httptypes.NewErrorResponse("pkcs7b64_first field is required"))
		return
	}
	if req.Pkcs7B64Second == nil || *req.Pkcs7B64Second == "" {
		c.JSON(http.StatusBadRequest, httptypes.NewErrorResponse("pkcs7b64_second field is required"))
		return
	}

	caller := identity.Resolve(c.Request)

	stamped, err := h.workflow.JoinAndStamp(c.Request.Context(), *req.Pkcs7B64First, *req.Pkcs7B64Second, caller)
	if err != nil {
		h.renderWorkflowError(c, err)
		return
	}

	verification, err := h.workflow.Verify(c.Request.Context(), stamped, caller)
	if err != nil {
		h.renderWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, httptypes.ComposeResponse{
		Success:      true,
		Pkcs7B64:     stamped,
		Verification: verification,
	})
}

// renderWorkflowError 把工作流错误映射为HTTP响应
// - 上游明确拒绝：400，err_msg携带上游原始响应
// - 上游"成功但无信封"的歧义响应：406
// - 传输层故障：502
func (h *SignatureHandler) renderWorkflowError(c *gin.Context, err error) {
	var rejected *types.StageRejectedError
	if errors.As(err, &rejected) {
		c.JSON(http.StatusBadRequest, httptypes.NewErrorResponse(string(rejected.Detail)))
		return
	}

	var ambiguous *types.AmbiguousSuccessError
	if errors.As(err, &ambiguous) {
		c.JSON(http.StatusNotAcceptable, httptypes.ErrorResponse{
			Success: false,
			ErrMsg:  ambiguous.Payload,
		})
		return
	}

	h.upstreamUnavailable(c, err)
}

// upstreamUnavailable 上游不可达
func (h *SignatureHandler) upstreamUnavailable(c *gin.Context, err error) {
	if zl := h.logger.GetZapLogger(); zl != nil {
		zl.Error("authority unreachable",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.JSON(http.StatusBadGateway, httptypes.NewErrorResponse("signature authority unavailable"))
}
