package proxy

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/five82/weekplan/internal/proxy"

// maxBody bounds upstream response bodies read into memory.
const maxBody = 4 << 20

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Request failed with status code %d", e.Status)
}

// Response is a successful upstream response.
type Response struct {
	Status int
	Body   []byte
}

// UpstreamOptions tunes the upstream HTTP client.
type UpstreamOptions struct {
	Timeout            time.Duration
	InsecureSkipVerify bool
	// Transport overrides the base transport; tests use it.
	Transport http.RoundTripper
}

// Upstream forwards requests to the remote item service.
type Upstream struct {
	base  *url.URL
	http  *http.Client
	calls metric.Int64Counter
}

// NewUpstream builds an Upstream for apiURL.
func NewUpstream(apiURL string, opts UpstreamOptions) (*Upstream, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(apiURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse upstream url %q: %w", apiURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("parse upstream url %q: want scheme://host", apiURL)
	}

	transport := opts.Transport
	if transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if opts.InsecureSkipVerify {
			t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed demo upstreams
		}
		transport = t
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	calls, err := otel.Meter(instrumentationName).Int64Counter(
		"weekplan.proxy.upstream.requests",
		metric.WithDescription("Requests forwarded to the item service"),
	)
	if err != nil {
		return nil, fmt.Errorf("create upstream counter: %w", err)
	}

	return &Upstream{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		calls: calls,
	}, nil
}

// Do forwards method path with an optional JSON payload. Non-2xx responses
// come back as *StatusError; transport failures as wrapped errors.
func (u *Upstream) Do(ctx context.Context, method, path string, payload any) (Response, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return Response{}, fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.base.String()+path, body)
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := u.http.Do(req)
	if err != nil {
		u.record(ctx, method, 0)
		return Response{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	u.record(ctx, method, resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Response{}, fmt.Errorf("read upstream body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, &StatusError{Status: resp.StatusCode, Body: data}
	}
	return Response{Status: resp.StatusCode, Body: data}, nil
}

func (u *Upstream) record(ctx context.Context, method string, status int) {
	u.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.Int("http.response.status_code", status),
	))
}
