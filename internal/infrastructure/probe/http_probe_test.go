package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
)

func newProbe(url string, insecure bool) *HTTPProbe {
	return NewHTTPProbe(Options{
		Endpoint:           domain.Endpoint(url),
		Timeout:            2 * time.Second,
		Marker:             domain.DefaultHealthMarker,
		InsecureSkipVerify: insecure,
	})
}

func serve(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestCheckHealthyWhenMarkerPresent(t *testing.T) {
	srv := serve(http.StatusOK, "Welcome to nginx! Deployed via SSM Document")
	defer srv.Close()

	v := newProbe(srv.URL, false).Check(context.Background())
	if !v.Healthy {
		t.Fatalf("expected healthy, got %+v", v)
	}
	if v.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", v.StatusCode)
	}
}

func TestCheckUnhealthyWhenMarkerMissing(t *testing.T) {
	srv := serve(http.StatusOK, "Welcome to nginx! Standard installation")
	defer srv.Close()

	v := newProbe(srv.URL, false).Check(context.Background())
	if v.Healthy {
		t.Fatalf("expected unhealthy, got %+v", v)
	}
	if !strings.Contains(v.Message, "missing") {
		t.Fatalf("expected diagnostic about missing marker, got %q", v.Message)
	}
}

func TestCheckMarkerIsCaseSensitive(t *testing.T) {
	srv := serve(http.StatusOK, "deployed via ssm document")
	defer srv.Close()

	if v := newProbe(srv.URL, false).Check(context.Background()); v.Healthy {
		t.Fatalf("expected unhealthy for lowercase marker, got %+v", v)
	}
}

func TestCheckUnhealthyOnNon200(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusMovedPermanently, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		srv := serve(status, "Deployed via SSM Document")
		v := newProbe(srv.URL, false).Check(context.Background())
		srv.Close()
		if v.Healthy {
			t.Fatalf("status %d: expected unhealthy", status)
		}
		if v.StatusCode != status {
			t.Fatalf("status %d: recorded %d", status, v.StatusCode)
		}
	}
}

func TestCheckUnhealthyOnTransportError(t *testing.T) {
	srv := serve(http.StatusOK, "Deployed via SSM Document")
	url := srv.URL
	srv.Close()

	v := newProbe(url, false).Check(context.Background())
	if v.Healthy {
		t.Fatal("expected unhealthy when connection is refused")
	}
	if v.StatusCode != 0 || v.Message == "" {
		t.Fatalf("expected transport diagnostic, got %+v", v)
	}
}

func TestCheckUnhealthyOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("Deployed via SSM Document"))
	}))
	defer srv.Close()

	p := NewHTTPProbe(Options{
		Endpoint: domain.Endpoint(srv.URL),
		Timeout:  20 * time.Millisecond,
		Marker:   domain.DefaultHealthMarker,
	})
	if v := p.Check(context.Background()); v.Healthy {
		t.Fatalf("expected unhealthy on timeout, got %+v", v)
	}
}

func TestCheckSelfSignedTLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<h1>Deployed via SSM Document</h1>"))
	}))
	defer srv.Close()

	if v := newProbe(srv.URL, true).Check(context.Background()); !v.Healthy {
		t.Fatalf("expected healthy with verification disabled, got %+v", v)
	}
	if v := newProbe(srv.URL, false).Check(context.Background()); v.Healthy {
		t.Fatalf("expected certificate failure with verification enabled, got %+v", v)
	}
}
