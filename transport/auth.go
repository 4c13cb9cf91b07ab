package transport

import (
	"net/http"

	"github.com/Azure/go-ntlmssp"
)

// WithBasicAuth attaches HTTP Basic credentials to every request.
func WithBasicAuth(username, password string) HTTPOption {
	return func(e *HTTPExchanger) {
		base := e.client.Transport
		if base == nil {
			base = e.httpTransport()
		}
		e.client.Transport = &credentialTransport{
			base:     base,
			username: username,
			password: password,
		}
	}
}

// WithNTLM authenticates requests with the NTLM handshake. The domain may
// be empty for local accounts.
func WithNTLM(domain, username, password string) HTTPOption {
	return func(e *HTTPExchanger) {
		base := e.client.Transport
		if base == nil {
			base = e.httpTransport()
		}
		user := username
		if domain != "" {
			user = domain + `\` + username
		}
		// The negotiator reads the credentials from the Authorization
		// header the credentialTransport sets.
		e.client.Transport = &credentialTransport{
			base:     ntlmssp.Negotiator{RoundTripper: base},
			username: user,
			password: password,
		}
	}
}

// credentialTransport injects basic-auth credentials without mutating the
// caller's request.
type credentialTransport struct {
	base     http.RoundTripper
	username string
	password string
}

func (t *credentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(clone)
}
