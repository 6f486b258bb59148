package identity

import (
	"net/http/httptest"
	"testing"

	"github.com/esigngate/v1/pkg/types"
)

func TestResolvePrefersForwardedIP(t *testing.T) {
	req := httptest.NewRequest("POST", "http://gateway.local/api/v1/pkcs7/verify", nil)
	req.Header.Set("X-Real-IP", "10.0.0.5")
	req.RemoteAddr = "192.168.1.1:54321"

	id := Resolve(req)

	if id.SourceIP != "10.0.0.5" {
		t.Fatalf("expected forwarded IP to win, got %q", id.SourceIP)
	}
	if id.DeclaredHost != "gateway.local" {
		t.Fatalf("declared host should be taken verbatim, got %q", id.DeclaredHost)
	}
}

func TestResolveFallsBackToPeerAddress(t *testing.T) {
	req := httptest.NewRequest("POST", "http://gateway.local/", nil)
	req.RemoteAddr = "192.168.1.1:54321"

	id := Resolve(req)

	if id.SourceIP != "192.168.1.1" {
		t.Fatalf("expected peer address host part, got %q", id.SourceIP)
	}
}

func TestResolveEmptyForwardedHeaderIgnored(t *testing.T) {
	req := httptest.NewRequest("GET", "http://gateway.local/", nil)
	req.Header.Set("X-Real-IP", "   ")
	req.RemoteAddr = "172.16.0.9:1000"

	id := Resolve(req)

	if id.SourceIP != "172.16.0.9" {
		t.Fatalf("blank forwarded header must not be used, got %q", id.SourceIP)
	}
}

func TestResolveUnknownWhenNothingAvailable(t *testing.T) {
	req := httptest.NewRequest("GET", "http://gateway.local/", nil)
	req.RemoteAddr = ""

	id := Resolve(req)

	if id.SourceIP != types.UnknownSource {
		t.Fatalf("expected sentinel %q, got %q", types.UnknownSource, id.SourceIP)
	}
}
