// Package probe implements ports.HealthProbe over HTTP(S).
package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
	"github.com/doeshing/ec2-healthwatch/internal/ports"
)

// Options configures an HTTPProbe.
type Options struct {
	Endpoint domain.Endpoint
	Timeout  time.Duration
	Marker   string
	// InsecureSkipVerify disables certificate validation so self-signed
	// endpoints can be probed.
	InsecureSkipVerify bool
}

// HTTPProbe issues a single GET per check and looks for Marker in a 200 body.
type HTTPProbe struct {
	endpoint   domain.Endpoint
	marker     string
	httpClient *http.Client
}

// NewHTTPProbe builds a probe with its own pooled transport.
func NewHTTPProbe(opts Options) *HTTPProbe {
	transport := cleanhttp.DefaultPooledTransport()
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed endpoints
	}
	return &HTTPProbe{
		endpoint: opts.Endpoint,
		marker:   opts.Marker,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
	}
}

// Check implements ports.HealthProbe.
func (p *HTTPProbe) Check(ctx context.Context) domain.HealthVerdict {
	start := time.Now()
	verdict := domain.HealthVerdict{CheckedAt: start}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint.String(), nil)
	if err != nil {
		verdict.Message = fmt.Sprintf("build request: %v", err)
		return verdict
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		verdict.Latency = time.Since(start)
		verdict.Message = err.Error()
		return verdict
	}
	defer resp.Body.Close()

	verdict.StatusCode = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	verdict.Latency = time.Since(start)
	if err != nil {
		verdict.Message = fmt.Sprintf("status %d, read body: %v", resp.StatusCode, err)
		return verdict
	}

	return evaluate(verdict, body, p.marker)
}

// evaluate applies the health predicate: status 200 and marker in body.
func evaluate(verdict domain.HealthVerdict, body []byte, marker string) domain.HealthVerdict {
	switch {
	case verdict.StatusCode != http.StatusOK:
		verdict.Message = fmt.Sprintf("status %d", verdict.StatusCode)
	case !strings.Contains(string(body), marker):
		verdict.Message = fmt.Sprintf("status %d, but missing %q", verdict.StatusCode, marker)
	default:
		verdict.Healthy = true
		verdict.Message = fmt.Sprintf("status %d, marker present", verdict.StatusCode)
	}
	return verdict
}

var _ ports.HealthProbe = (*HTTPProbe)(nil)
