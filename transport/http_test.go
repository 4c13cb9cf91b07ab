package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	soap "github.com/smnsjas/go-soap"
)

// TestHTTPExchanger_Exchange verifies the outgoing request shape against a
// live server.
func TestHTTPExchanger_Exchange(t *testing.T) {
	var got struct {
		method      string
		contentType string
		userAgent   string
		soapAction  string
		cookie      string
		body        []byte
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.contentType = r.Header.Get("Content-Type")
		got.userAgent = r.Header.Get("User-Agent")
		got.soapAction = r.Header.Get("SOAPAction")
		got.cookie = r.Header.Get("Cookie")
		got.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "text/xml")
		io.WriteString(w, okEnvelope)
	}))
	defer srv.Close()

	e := NewHTTPExchanger()
	resp, err := e.Exchange(context.Background(), &Request{
		URL:         srv.URL,
		SOAPAction:  "urn:test#Ping",
		ContentType: ContentTypeXML,
		Body:        []byte("<payload/>\r\n"),
		Headers:     []HeaderProperty{{Key: "Cookie", Value: "session=abc"}},
	})
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	defer resp.Body.Close()

	if got.method != http.MethodPost {
		t.Errorf("method = %q, want POST", got.method)
	}
	if got.contentType != ContentTypeXML {
		t.Errorf("Content-Type = %q, want %q", got.contentType, ContentTypeXML)
	}
	if got.userAgent != UserAgent {
		t.Errorf("User-Agent = %q, want %q", got.userAgent, UserAgent)
	}
	if got.soapAction != "urn:test#Ping" {
		t.Errorf("SOAPAction = %q", got.soapAction)
	}
	if got.cookie != "session=abc" {
		t.Errorf("Cookie = %q", got.cookie)
	}
	if !bytes.Equal(got.body, []byte("<payload/>\r\n")) {
		t.Errorf("body = %q", got.body)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	var contentType string
	for _, h := range resp.Headers {
		if h.Key == "Content-Type" {
			contentType = h.Value
		}
	}
	if contentType != "text/xml" {
		t.Errorf("response Content-Type = %q", contentType)
	}
}

// TestHTTPExchanger_ErrorStatusKeepsBody verifies an error status returns
// both the response stream and an HTTPError.
func TestHTTPExchanger_ErrorStatusKeepsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "fault payload")
	}))
	defer srv.Close()

	e := NewHTTPExchanger()
	resp, err := e.Exchange(context.Background(), &Request{URL: srv.URL, Body: []byte("<x/>")})

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want *HTTPError", err)
	}
	if httpErr.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", httpErr.StatusCode)
	}
	if resp == nil {
		t.Fatal("response must accompany the HTTP error")
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "fault payload" {
		t.Errorf("body = %q", body)
	}
}

// TestHTTPExchanger_BasicAuth verifies the Authorization header carries
// the configured credentials.
func TestHTTPExchanger_BasicAuth(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		io.WriteString(w, okEnvelope)
	}))
	defer srv.Close()

	e := NewHTTPExchanger(WithBasicAuth("svc-user", "hunter2"))
	resp, err := e.Exchange(context.Background(), &Request{URL: srv.URL, Body: []byte("<x/>")})
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	resp.Body.Close()

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("svc-user:hunter2"))
	if auth != want {
		t.Errorf("Authorization = %q, want %q", auth, want)
	}
}

// TestHTTPExchanger_NTLMTransportChain verifies the NTLM option wraps the
// transport rather than replacing the client.
func TestHTTPExchanger_NTLMTransportChain(t *testing.T) {
	e := NewHTTPExchanger(WithNTLM("CORP", "svc-user", "hunter2"))

	ct, ok := e.client.Transport.(*credentialTransport)
	if !ok {
		t.Fatalf("transport is %T, want *credentialTransport", e.client.Transport)
	}
	if ct.username != `CORP\svc-user` {
		t.Errorf("username = %q, want domain-qualified", ct.username)
	}
}

// TestClient_EndToEnd runs a full call through the HTTP exchanger.
func TestClient_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<Envelope><Body><EchoResponse><msg>hello</msg></EchoResponse></Body></Envelope>`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, NewHTTPExchanger(), WithXMLVersionTag(`<?xml version="1.0"?>`))

	env := soap.NewEnvelope(soap.Version11)
	env.BodyOut = soap.NewObject("urn:echo", "Echo").AddProperty("msg", "hello")

	if _, err := c.Call(context.Background(), "urn:echo#Echo", env); err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	got, ok := env.BodyIn.Value.(*soap.Object)
	if !ok {
		t.Fatalf("body is %T, want *soap.Object", env.BodyIn.Value)
	}
	msg, _ := got.PropertyByName("msg")
	if p, ok := msg.(soap.Primitive); !ok || p.Value != "hello" {
		t.Errorf("msg = %v, want hello", msg)
	}
}

// TestClient_EndToEnd_FaultOn500 verifies the fault-over-HTTPError
// precedence against a live server.
func TestClient_EndToEnd_FaultOn500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `<Envelope><Body><Fault><faultcode>Server</faultcode><faultstring>upstream down</faultstring></Fault></Body></Envelope>`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, NewHTTPExchanger())

	env := soap.NewEnvelope(soap.Version11)
	env.BodyOut = soap.NewObject("urn:test", "Ping")
	_, err := c.Call(context.Background(), "", env)

	var fault *soap.Fault
	if !errors.As(err, &fault) {
		t.Fatalf("err = %v, want the decoded fault", err)
	}
	if fault.String != "upstream down" {
		t.Errorf("fault reason = %q", fault.String)
	}
}

// TestClient_EndToEnd_Multipart verifies multipart assembly over HTTP.
func TestClient_EndToEnd_Multipart(t *testing.T) {
	attachment := []byte{0x05, 0x06, 0x07}
	stream := buildMultipart("HTTPB", reportEnvelope, attachment)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", `multipart/related; boundary="HTTPB"`)
		w.Write(stream)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, NewHTTPExchanger(), WithMultipart(true))

	env := soap.NewEnvelope(soap.Version11)
	env.BodyOut = soap.NewObject("urn:test", "GetReport")
	if _, err := c.Call(context.Background(), "", env); err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	composite := env.BodyIn.Value.(*soap.Object)
	data, _ := composite.PropertyByName("attachmentData")
	if !bytes.Equal(data.([]byte), attachment) {
		t.Errorf("attachmentData = %v, want %v", data, attachment)
	}
}
