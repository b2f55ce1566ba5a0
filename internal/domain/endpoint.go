// Package domain defines the core entities shared by the health monitor.
//
// The domain layer is independent of infrastructure concerns: it holds the
// endpoint, verdict, instance and remediation types that flow between the
// monitor loop, the probe and the compute adapters.
package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidEndpoint is returned when an endpoint lacks an http(s) scheme.
var ErrInvalidEndpoint = errors.New("endpoint must start with http:// or https://")

// Endpoint is the monitored URL. It is validated once and never mutated.
type Endpoint string

// ParseEndpoint validates raw and returns it as an Endpoint.
func ParseEndpoint(raw string) (Endpoint, error) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrInvalidEndpoint, raw)
	}
	return Endpoint(raw), nil
}

func (e Endpoint) String() string {
	return string(e)
}
