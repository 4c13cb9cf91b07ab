package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	soap "github.com/smnsjas/go-soap"
)

// ErrMissingBoundary is returned by the multipart decoder when the stream
// declares no boundary. Use errors.Is to test for it.
var ErrMissingBoundary = errors.New("transport: not a valid multipart message")

const (
	// DefaultTimeout is the network timeout applied when none is configured.
	DefaultTimeout = 20 * time.Second

	// ContentTypeXML is the SOAP 1.1 content type.
	ContentTypeXML = "text/xml;charset=utf-8"

	// ContentTypeSOAPXML is the SOAP 1.2 content type.
	ContentTypeSOAPXML = "application/soap+xml;charset=utf-8"

	// UserAgent is the client identifier concrete exchangers attach to
	// outgoing requests.
	UserAgent = "go-soap/1.0"
)

// HeaderProperty is one transport-level header observed on a call.
type HeaderProperty struct {
	Key   string
	Value string
}

// Request is the outgoing half of one exchange.
type Request struct {
	// URL is the target endpoint.
	URL string

	// SOAPAction is the action or target namespace of the call.
	SOAPAction string

	// ContentType is the content type token matching the envelope version.
	ContentType string

	// Body is the fully serialized request: prolog, envelope XML, CR LF.
	Body []byte

	// Headers are caller-supplied transport headers, e.g. cookies.
	Headers []HeaderProperty

	// Timeout bounds the whole exchange. Zero means the exchanger default.
	Timeout time.Duration

	// Proxy overrides the exchanger's proxy for this call, when supported.
	Proxy *url.URL
}

// Response is the incoming half of one exchange. Body must be closed by
// the consumer on every exit path.
type Response struct {
	StatusCode int
	Body       io.ReadCloser
	Headers    []HeaderProperty
}

// Exchanger performs a single request/response exchange against a peer.
// It carries no SOAP knowledge; the Client owns serialization on both
// sides of the exchange.
type Exchanger interface {
	Exchange(ctx context.Context, req *Request) (*Response, error)
}

// Transport is the call contract every concrete SOAP transport fulfills.
type Transport interface {
	// Call performs a call with no extra headers and no capture. It
	// delegates to CallWithHeaders.
	Call(ctx context.Context, targetNamespace string, env *soap.Envelope) ([]HeaderProperty, error)

	// CallWithHeaders performs a call, sending the given transport headers
	// and recording wire dumps into capture when it is non-nil. The
	// returned headers are those observed on the response, in order.
	CallWithHeaders(ctx context.Context, targetNamespace string, env *soap.Envelope, headers []HeaderProperty, capture *Capture) ([]HeaderProperty, error)

	// Host, Port and Path describe the target endpoint.
	Host() string
	Port() int
	Path() string

	// Reset recycles the underlying connection, when the transport has one.
	Reset()
}

// Capture records the raw request and response text of a single call for
// diagnostics. A Capture belongs to one call; reusing one across calls
// overwrites the dumps.
type Capture struct {
	RequestDump  string
	ResponseDump string
}

// HTTPError reports a response with an HTTP error status whose body did
// not decode to a SOAP fault.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("transport: HTTP %s", e.Status)
	}
	return fmt.Sprintf("transport: HTTP %d", e.StatusCode)
}
