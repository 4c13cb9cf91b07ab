package transport

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	soap "github.com/smnsjas/go-soap"
	"github.com/smnsjas/go-soap/mimepart"
)

// EncodeEnvelope serializes an envelope into request bytes: the XML
// version tag verbatim, the envelope XML, then CR LF. The tag is
// caller-supplied free text and is passed through unvalidated; an empty
// tag is fine.
func EncodeEnvelope(env *soap.Envelope, xmlVersionTag string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xmlVersionTag)
	enc := xml.NewEncoder(&buf)
	if err := env.WriteXML(enc); err != nil {
		return nil, fmt.Errorf("transport: encode envelope: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("transport: encode envelope: %w", err)
	}
	buf.WriteString("\r\n")
	return buf.Bytes(), nil
}

// DecodeEnvelope deserializes one response document into the envelope,
// populating env.BodyIn with the payload or a Fault. Decoding is one-shot;
// malformed XML and stream failures propagate to the caller.
func DecodeEnvelope(env *soap.Envelope, r io.Reader) error {
	dec := xml.NewDecoder(r)
	if err := env.ParseXML(dec); err != nil {
		return fmt.Errorf("transport: decode envelope: %w", err)
	}
	return nil
}

// PartReader yields the pieces of a multipart stream: the declared
// boundary, the preamble block preceding the first boundary marker, and
// the data of each subsequent part. mimepart.Reader is the bundled
// implementation.
type PartReader interface {
	Boundary() string
	Preamble() []byte
	NextPartData() ([]byte, error)
}

// DecodeMultipart deserializes a multipart response into the envelope: the
// preamble is decoded as the primary SOAP message and the first trailing
// part becomes the attachment. See DecodeMultipartFrom for the resulting
// body shape.
func DecodeMultipart(env *soap.Envelope, r io.Reader) error {
	mr, err := mimepart.NewReader(r)
	if err != nil {
		return fmt.Errorf("transport: read multipart stream: %w", err)
	}
	return DecodeMultipartFrom(env, mr)
}

// DecodeMultipartFrom runs the multipart assembly over an already opened
// part reader. On success env.BodyIn holds a composite Object with exactly
// two properties: "body", the first property of the decoded payload, and
// "attachmentData", the raw bytes of the first part. A fault decoded from
// the preamble is returned immediately and no part is read; parts beyond
// the first are ignored.
func DecodeMultipartFrom(env *soap.Envelope, mr PartReader) error {
	if mr.Boundary() == "" {
		return ErrMissingBoundary
	}

	if err := DecodeEnvelope(env, bytes.NewReader(mr.Preamble())); err != nil {
		return err
	}
	if fault := env.BodyIn.Fault; fault != nil {
		return fault
	}

	attachment, err := mr.NextPartData()
	if err != nil {
		return fmt.Errorf("transport: read attachment part: %w", err)
	}

	ks, ok := env.BodyIn.Value.(*soap.Object)
	if !ok {
		return fmt.Errorf("transport: multipart body %T is not a composite value", env.BodyIn.Value)
	}
	if ks.PropertyCount() == 0 {
		return fmt.Errorf("transport: multipart body %s has no properties", ks.Name)
	}

	// The first property of the decoded payload is the semantic inner
	// body. This is a fixed convention of the wire format, not a general
	// rule.
	composite := soap.NewObject("Namespace", "Body")
	composite.AddPropertyInfo(soap.PropertyInfo{Name: "body", Value: ks.Property(0), Type: soap.TypeObject})
	composite.AddPropertyInfo(soap.PropertyInfo{Name: "attachmentData", Value: attachment, Type: soap.TypeBytes})
	env.BodyIn = soap.Body{Value: composite}
	return nil
}
