package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/esigngate/v1/internal/core/infrastructure/log"
	"github.com/esigngate/v1/pkg/interfaces/authority"
	"github.com/esigngate/v1/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubWorkflow 可编程的工作流桩
type stubWorkflow struct {
	verifyResult  json.RawMessage
	verifyErr     error
	stampResult   string
	stampErr      error
	verifyCalls   int
	stampCalls    int
	lastIdentity  types.CallerIdentity
	lastFirst     string
	lastSecond    string
	lastVerifyArg string
}

func (s *stubWorkflow) Join(ctx context.Context, first, second string, identity types.CallerIdentity) (string, error) {
	return "", nil
}

func (s *stubWorkflow) Timestamp(ctx context.Context, pkcs7 string, identity types.CallerIdentity) (string, error) {
	return "", nil
}

func (s *stubWorkflow) Verify(ctx context.Context, pkcs7 string, identity types.CallerIdentity) (json.RawMessage, error) {
	s.verifyCalls++
	s.lastVerifyArg = pkcs7
	s.lastIdentity = identity
	return s.verifyResult, s.verifyErr
}

func (s *stubWorkflow) JoinAndStamp(ctx context.Context, first, second string, identity types.CallerIdentity) (string, error) {
	s.stampCalls++
	s.lastFirst = first
	s.lastSecond = second
	s.lastIdentity = identity
	return s.stampResult, s.stampErr
}

// stubClient 可编程的机构客户端桩（仅挑战接口参与路由测试）
type stubClient struct {
	challengeOutcome *authority.Outcome
	challengeErr     error
	challengeCalls   int
}

func (s *stubClient) Challenge(ctx context.Context, identity types.CallerIdentity) (*authority.Outcome, error) {
	s.challengeCalls++
	return s.challengeOutcome, s.challengeErr
}

func (s *stubClient) Join(ctx context.Context, first, second string, identity types.CallerIdentity) (*authority.Outcome, error) {
	return nil, errors.New("unexpected call")
}

func (s *stubClient) Timestamp(ctx context.Context, pkcs7 string, identity types.CallerIdentity) (*authority.Outcome, error) {
	return nil, errors.New("unexpected call")
}

func (s *stubClient) Verify(ctx context.Context, pkcs7 string, identity types.CallerIdentity) (*authority.Outcome, error) {
	return nil, errors.New("unexpected call")
}

func newTestRouter(wf *stubWorkflow, client *stubClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	handler := NewSignatureHandler(wf, client, log.NewNop())
	handler.RegisterRoutes(engine.Group("/api/v1"), nil)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestVerifyMissingFieldRejectedLocally(t *testing.T) {
	wf := &stubWorkflow{}
	engine := newTestRouter(wf, &stubClient{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/pkcs7/verify", gin.H{"other": "value"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"err_msg":"pkcs7b64 field is required"}`, rec.Body.String())
	// 字段缺失时不允许触发任何上游调用
	assert.Equal(t, 0, wf.verifyCalls)
}

func TestVerifyEmptyFieldRejectedLocally(t *testing.T) {
	wf := &stubWorkflow{}
	engine := newTestRouter(wf, &stubClient{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/pkcs7/verify", gin.H{"pkcs7b64": ""})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, wf.verifyCalls)
}

func TestVerifySuccessPassesThroughAuthorityPayload(t *testing.T) {
	wf := &stubWorkflow{
		verifyResult: json.RawMessage(`{"success":true,"pkcs7Info":{"signers":[]}}`),
	}
	engine := newTestRouter(wf, &stubClient{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/pkcs7/verify", gin.H{"pkcs7b64": "ENVELOPE"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"pkcs7Info":{"signers":[]}}`, rec.Body.String())
	assert.Equal(t, "ENVELOPE", wf.lastVerifyArg)
}

func TestVerifyRejectionCarriesUpstreamDetail(t *testing.T) {
	wf := &stubWorkflow{
		verifyErr: &types.StageRejectedError{
			Stage:  types.StageVerify,
			Status: http.StatusInternalServerError,
			Detail: []byte("signature malformed"),
		},
	}
	engine := newTestRouter(wf, &stubClient{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/pkcs7/verify", gin.H{"pkcs7b64": "BAD"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"err_msg":"signature malformed"}`, rec.Body.String())
}

func TestVerifyTransportFailureIsBadGateway(t *testing.T) {
	wf := &stubWorkflow{verifyErr: errors.New("dial tcp: connection refused")}
	engine := newTestRouter(wf, &stubClient{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/pkcs7/verify", gin.H{"pkcs7b64": "X"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestComposeRunsFullCycle(t *testing.T) {
	wf := &stubWorkflow{
		stampResult:  "STAMPED",
		verifyResult: json.RawMessage(`{"success":true}`),
	}
	engine := newTestRouter(wf, &stubClient{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/pkcs7/compose", gin.H{
		"pkcs7b64_first":  "A",
		"pkcs7b64_second": "B",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success      bool            `json:"success"`
		Pkcs7B64     string          `json:"pkcs7b64"`
		Verification json.RawMessage `json:"verification"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "STAMPED", resp.Pkcs7B64)
	assert.JSONEq(t, `{"success":true}`, string(resp.Verification))

	// 分片顺序必须原样传递
	assert.Equal(t, "A", wf.lastFirst)
	assert.Equal(t, "B", wf.lastSecond)
	// 合成后的信封进入验真
	assert.Equal(t, "STAMPED", wf.lastVerifyArg)
}

func TestComposeAmbiguousTimestampIs406(t *testing.T) {
	wf := &stubWorkflow{
		stampErr: &types.AmbiguousSuccessError{
			Stage:   types.StageTimestamp,
			Payload: json.RawMessage(`{"success":true,"note":"no envelope"}`),
		},
	}
	engine := newTestRouter(wf, &stubClient{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/pkcs7/compose", gin.H{
		"pkcs7b64_first":  "A",
		"pkcs7b64_second": "B",
	})

	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	assert.JSONEq(t, `{"success":false,"err_msg":{"success":true,"note":"no envelope"}}`, rec.Body.String())
	// 歧义响应中止流程，验真不得执行
	assert.Equal(t, 0, wf.verifyCalls)
}

func TestComposeMissingFragmentsRejectedLocally(t *testing.T) {
	wf := &stubWorkflow{}
	engine := newTestRouter(wf, &stubClient{})

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/pkcs7/compose", gin.H{
		"pkcs7b64_first": "A",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, wf.stampCalls)
}

func TestChallengePassThrough(t *testing.T) {
	client := &stubClient{
		challengeOutcome: &authority.Outcome{
			StatusCode: http.StatusOK,
			Body:       []byte(`{"success":true,"challenge":"random-nonce"}`),
		},
	}
	engine := newTestRouter(&stubWorkflow{}, client)

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/challenge", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"challenge":"random-nonce"}`, rec.Body.String())
	assert.Equal(t, 1, client.challengeCalls)
}

func TestChallengeUpstreamFailureIsBadGateway(t *testing.T) {
	client := &stubClient{challengeErr: errors.New("connection reset")}
	engine := newTestRouter(&stubWorkflow{}, client)

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/challenge", nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestIdentityForwardedFromRequest(t *testing.T) {
	wf := &stubWorkflow{verifyResult: json.RawMessage(`{}`)}
	engine := newTestRouter(wf, &stubClient{})

	raw, err := json.Marshal(gin.H{"pkcs7b64": "X"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pkcs7/verify", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Real-IP", "203.0.113.7")
	req.Host = "gateway.example.uz"
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "203.0.113.7", wf.lastIdentity.SourceIP)
	assert.Equal(t, "gateway.example.uz", wf.lastIdentity.DeclaredHost)
}
