package authority

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	authorityconfig "github.com/esigngate/v1/internal/config/authority"
	logimpl "github.com/esigngate/v1/internal/core/infrastructure/log"
	"github.com/esigngate/v1/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturedRequest 记录机构桩收到的请求
type capturedRequest struct {
	Method  string
	Path    string
	Host    string
	RealIP  string
	Payload string
}

func newStubAuthority(t *testing.T, status int, body string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	captured := &[]capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		*captured = append(*captured, capturedRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Host:    r.Host,
			RealIP:  r.Header.Get("X-Real-IP"),
			Payload: string(payload),
		})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	options := authorityconfig.New(&types.UserAuthorityConfig{
		BaseURL: types.StringPtr(baseURL),
	}).GetOptions()
	return NewClient(options, logimpl.GetLogger())
}

func TestJoinPreservesFragmentOrder(t *testing.T) {
	srv, captured := newStubAuthority(t, http.StatusOK, `{"pkcs7b64":"joined"}`)
	client := newTestClient(t, srv.URL)

	identity := types.CallerIdentity{DeclaredHost: "gateway.local", SourceIP: "10.0.0.5"}
	outcome, err := client.Join(context.Background(), "fragA", "fragB", identity)
	require.NoError(t, err)

	require.Len(t, *captured, 1)
	got := (*captured)[0]
	assert.Equal(t, "fragA|fragB", got.Payload, "fragment order must match caller order")
	assert.Equal(t, "/frontend/pkcs7/join", got.Path)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, http.StatusOK, outcome.StatusCode)
}

func TestIdentityHeadersAttachedOnEveryCall(t *testing.T) {
	srv, captured := newStubAuthority(t, http.StatusOK, `{}`)
	client := newTestClient(t, srv.URL)

	identity := types.CallerIdentity{DeclaredHost: "client.example.uz", SourceIP: "203.0.113.7"}
	ctx := context.Background()

	_, err := client.Challenge(ctx, identity)
	require.NoError(t, err)
	_, err = client.Timestamp(ctx, "envelope", identity)
	require.NoError(t, err)
	_, err = client.Verify(ctx, "envelope", identity)
	require.NoError(t, err)

	require.Len(t, *captured, 3)
	for _, got := range *captured {
		assert.Equal(t, "client.example.uz", got.Host)
		assert.Equal(t, "203.0.113.7", got.RealIP)
	}
}

func TestChallengeIsGetWithoutPayload(t *testing.T) {
	srv, captured := newStubAuthority(t, http.StatusOK, `{"challenge":"abc"}`)
	client := newTestClient(t, srv.URL)

	_, err := client.Challenge(context.Background(), types.CallerIdentity{SourceIP: "1.2.3.4"})
	require.NoError(t, err)

	require.Len(t, *captured, 1)
	got := (*captured)[0]
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/frontend/challenge", got.Path)
	assert.Empty(t, got.Payload)
}

func TestOutcomeCarriesRawStatusAndBody(t *testing.T) {
	srv, _ := newStubAuthority(t, http.StatusInternalServerError, "signature malformed")
	client := newTestClient(t, srv.URL)

	outcome, err := client.Verify(context.Background(), "bad-envelope", types.CallerIdentity{SourceIP: "1.2.3.4"})
	require.NoError(t, err, "non-2xx is not a transport error")

	assert.Equal(t, http.StatusInternalServerError, outcome.StatusCode)
	assert.Equal(t, "signature malformed", string(outcome.Body))
}

func TestTransportFailureReturnsError(t *testing.T) {
	// 指向已关闭的端口
	srv, _ := newStubAuthority(t, http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()

	client := newTestClient(t, url)
	outcome, err := client.Verify(context.Background(), "envelope", types.CallerIdentity{SourceIP: "1.2.3.4"})

	require.Error(t, err)
	assert.Nil(t, outcome)
}

func TestTimestampSendsRawEnvelope(t *testing.T) {
	srv, captured := newStubAuthority(t, http.StatusOK, `{"pkcs7b64":"stamped"}`)
	client := newTestClient(t, srv.URL)

	_, err := client.Timestamp(context.Background(), "raw-envelope-bytes", types.CallerIdentity{SourceIP: "1.2.3.4"})
	require.NoError(t, err)

	require.Len(t, *captured, 1)
	got := (*captured)[0]
	assert.Equal(t, "/frontend/timestamp/pkcs7", got.Path)
	assert.Equal(t, "raw-envelope-bytes", got.Payload)
}
