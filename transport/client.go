package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	soap "github.com/smnsjas/go-soap"
	intlog "github.com/smnsjas/go-soap/internal/log"
)

// Client is the default Transport: it owns the encode → exchange → decode
// lifecycle and delegates only the network step to its Exchanger.
//
// A Client keeps configuration, not call state. It is safe to reuse across
// sequential calls; concurrent calls on one instance require either one
// Client per in-flight call or caller-supplied synchronization, since the
// configuration setters are not synchronized.
type Client struct {
	exchanger Exchanger
	logger    *slog.Logger

	url           string
	timeout       time.Duration
	proxy         *url.URL
	xmlVersionTag string
	multipart     bool
	debug         bool
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the exchange timeout. The default is DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithProxy routes calls through the given proxy.
func WithProxy(u *url.URL) Option {
	return func(c *Client) {
		c.proxy = u
	}
}

// WithXMLVersionTag sets the XML version tag emitted at the top of each
// request, e.g. `<?xml version="1.0" encoding="UTF-8"?>`. The tag is not
// validated. The default is empty.
func WithXMLVersionTag(tag string) Option {
	return func(c *Client) {
		c.xmlVersionTag = tag
	}
}

// WithMultipart selects multipart response parsing.
func WithMultipart(enabled bool) Option {
	return func(c *Client) {
		c.multipart = enabled
	}
}

// WithDebug enables wire-dump logging at Debug level. Dumps pass through a
// redacting handler so credentials in headers do not reach the log.
func WithDebug() Option {
	return func(c *Client) {
		c.debug = true
	}
}

// WithLogger sets the logger used for debug output. The default is
// slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Client targeting rawURL over the given exchanger.
func NewClient(rawURL string, exchanger Exchanger, opts ...Option) *Client {
	c := &Client{
		exchanger: exchanger,
		url:       rawURL,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.debug {
		c.logger = slog.New(intlog.NewRedactingHandler(c.logger.Handler()))
	}
	return c
}

var _ Transport = (*Client)(nil)

// SetURL sets the target url.
func (c *Client) SetURL(rawURL string) {
	c.url = rawURL
}

// SetXMLVersionTag sets the version tag for outgoing calls. See
// WithXMLVersionTag.
func (c *Client) SetXMLVersionTag(tag string) {
	c.xmlVersionTag = tag
}

// SetMultipart selects multipart response parsing for subsequent calls.
func (c *Client) SetMultipart(multipart bool) {
	c.multipart = multipart
}

// IsMultipart reports whether responses are parsed in multipart mode.
func (c *Client) IsMultipart() bool {
	return c.multipart
}

// Reset recycles the underlying connection when the exchanger supports it.
func (c *Client) Reset() {
	if r, ok := c.exchanger.(interface{ Reset() }); ok {
		r.Reset()
	}
}

// Call performs a call with no extra headers and no capture.
func (c *Client) Call(ctx context.Context, targetNamespace string, env *soap.Envelope) ([]HeaderProperty, error) {
	return c.CallWithHeaders(ctx, targetNamespace, env, nil, nil)
}

// CallWithHeaders performs one synchronous call: serialize the envelope,
// exchange, deserialize the response in simple or multipart mode. The
// returned headers are those observed on the response. The error is an
// I/O failure, a decode failure, an *HTTPError, or the *soap.Fault the
// peer answered with; nothing is retried.
func (c *Client) CallWithHeaders(ctx context.Context, targetNamespace string, env *soap.Envelope, headers []HeaderProperty, capture *Capture) ([]HeaderProperty, error) {
	reqData, err := EncodeEnvelope(env, c.xmlVersionTag)
	if err != nil {
		return nil, err
	}
	if capture != nil {
		capture.RequestDump = string(reqData)
	}
	if c.debug {
		c.logger.Debug("soap request",
			"url", c.url,
			"action", targetNamespace,
			"bytes", len(reqData),
			"multipart", c.multipart)
	}

	resp, exchErr := c.exchanger.Exchange(ctx, &Request{
		URL:         c.url,
		SOAPAction:  targetNamespace,
		ContentType: contentTypeFor(env.Version),
		Body:        reqData,
		Headers:     headers,
		Timeout:     c.timeout,
		Proxy:       c.proxy,
	})
	if resp == nil {
		return nil, exchErr
	}

	data, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if capture != nil {
		capture.ResponseDump = string(data)
	}
	if c.debug {
		c.logger.Debug("soap response",
			"status", resp.StatusCode,
			"bytes", len(data))
	}
	if readErr != nil {
		return resp.Headers, fmt.Errorf("transport: read response: %w", readErr)
	}

	decodeErr := c.decode(env, data)

	// SOAP 1.1 faults ride on HTTP 500: when the exchange reported an HTTP
	// error status but the body decodes to a fault, the fault wins.
	if exchErr != nil {
		var httpErr *HTTPError
		if errors.As(exchErr, &httpErr) && decodeErr == nil {
			if fault := env.BodyIn.Fault; fault != nil {
				return resp.Headers, fault
			}
		}
		return resp.Headers, exchErr
	}
	if decodeErr != nil {
		return resp.Headers, decodeErr
	}
	if fault := env.BodyIn.Fault; fault != nil {
		return resp.Headers, fault
	}
	return resp.Headers, nil
}

func (c *Client) decode(env *soap.Envelope, data []byte) error {
	if c.multipart {
		return DecodeMultipart(env, bytes.NewReader(data))
	}
	return DecodeEnvelope(env, bytes.NewReader(data))
}

// Host returns the host name of the target endpoint.
func (c *Client) Host() string {
	u, err := url.Parse(c.url)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Port returns the port of the target endpoint, defaulting by scheme.
func (c *Client) Port() int {
	u, err := url.Parse(c.url)
	if err != nil {
		return 0
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		return port
	}
	if u.Scheme == "https" {
		return 443
	}
	return 80
}

// Path returns the path of the target endpoint.
func (c *Client) Path() string {
	u, err := url.Parse(c.url)
	if err != nil {
		return ""
	}
	return u.Path
}

func contentTypeFor(v soap.Version) string {
	if v == soap.Version12 {
		return ContentTypeSOAPXML
	}
	return ContentTypeXML
}
