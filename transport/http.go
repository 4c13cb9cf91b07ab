package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"sort"
)

// HTTPExchanger performs SOAP exchanges over HTTP and HTTPS. It implements
// Exchanger and is safe for concurrent use; per-call state lives entirely
// in the Request.
type HTTPExchanger struct {
	client *http.Client
}

// HTTPOption configures an HTTPExchanger.
type HTTPOption func(*HTTPExchanger)

// NewHTTPExchanger creates an HTTP exchanger with the given options.
func NewHTTPExchanger(opts ...HTTPOption) *HTTPExchanger {
	e := &HTTPExchanger{
		client: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithHTTPClient replaces the underlying HTTP client. It overrides any
// TLS or authentication options applied before it.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(e *HTTPExchanger) {
		e.client = c
	}
}

// WithTLSConfig sets a custom TLS configuration. MinVersion is raised to
// TLS 1.2 when the config allows lower.
func WithTLSConfig(cfg *tls.Config) HTTPOption {
	return func(e *HTTPExchanger) {
		if cfg.MinVersion < tls.VersionTLS12 {
			cfg.MinVersion = tls.VersionTLS12
		}
		e.httpTransport().TLSClientConfig = cfg
	}
}

// httpTransport ensures the client carries an *http.Transport at the
// bottom of its round-tripper chain and returns it.
func (e *HTTPExchanger) httpTransport() *http.Transport {
	if tr, ok := e.client.Transport.(*http.Transport); ok {
		return tr
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
	if e.client.Transport == nil {
		e.client.Transport = tr
	}
	return tr
}

// Exchange posts the request body and returns the response stream together
// with the observed headers. A status >= 400 yields both the response and
// an *HTTPError, so the caller can still look for a fault document in the
// body.
func (e *HTTPExchanger) Exchange(ctx context.Context, r *Request) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(r.Body))
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}

	contentType := r.ContentType
	if contentType == "" {
		contentType = ContentTypeXML
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", UserAgent)
	if r.SOAPAction != "" {
		req.Header.Set("SOAPAction", r.SOAPAction)
	}
	for _, h := range r.Headers {
		req.Header.Add(h.Key, h.Value)
	}

	resp, err := e.clientFor(r).Do(req)
	if err != nil {
		return nil, fmt.Errorf("transport: request failed: %w", err)
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Headers:    headerProperties(resp.Header),
	}
	if resp.StatusCode >= 400 {
		return out, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return out, nil
}

// Reset closes idle connections, forcing the next call onto a fresh one.
func (e *HTTPExchanger) Reset() {
	e.client.CloseIdleConnections()
}

// clientFor applies the per-call timeout and proxy, cloning the shared
// client so concurrent calls stay isolated.
func (e *HTTPExchanger) clientFor(r *Request) *http.Client {
	if r.Timeout <= 0 && r.Proxy == nil {
		return e.client
	}
	clone := *e.client
	if r.Timeout > 0 {
		clone.Timeout = r.Timeout
	}
	if r.Proxy != nil {
		var tr *http.Transport
		if base, ok := clone.Transport.(*http.Transport); ok {
			tr = base.Clone()
		} else {
			// An auth round-tripper wraps the transport; a per-call proxy
			// bypasses it, so configure auth-plus-proxy at construction
			// instead when both are needed.
			tr = &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			}
		}
		tr.Proxy = http.ProxyURL(r.Proxy)
		clone.Transport = tr
	}
	return &clone
}

// headerProperties flattens an http.Header into an ordered list. Keys are
// sorted so the order is stable across calls.
func headerProperties(h http.Header) []HeaderProperty {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	props := make([]HeaderProperty, 0, len(h))
	for _, k := range keys {
		for _, v := range h[k] {
			props = append(props, HeaderProperty{Key: k, Value: v})
		}
	}
	return props
}
