package soap

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Body is the decoded result of a call. Exactly one of Value and Fault is
// set after a successful decode: Value holds the payload (*Object, or
// Primitive for a text-only body), Fault holds a decoded SOAP fault.
type Body struct {
	Value any
	Fault *Fault
}

// Err returns the Fault as an error, or nil for a payload body.
func (b Body) Err() error {
	if b.Fault != nil {
		return b.Fault
	}
	return nil
}

// Envelope is the unit of a SOAP message. BodyOut is serialized on
// requests; BodyIn is populated when a response is decoded. The envelope
// is owned by the caller across a call and must not be shared between
// in-flight calls.
type Envelope struct {
	Version Version

	// BodyOut is the outgoing body written on serialization.
	BodyOut *Object

	// BodyIn is the decoded incoming body, set by ParseXML.
	BodyIn Body
}

// NewEnvelope creates an empty envelope for the given SOAP version.
func NewEnvelope(v Version) *Envelope {
	return &Envelope{Version: v}
}

// WriteXML writes the envelope through the supplied XML writer. The caller
// owns the writer and is responsible for flushing it.
func (e *Envelope) WriteXML(enc *xml.Encoder) error {
	envStart := xml.StartElement{
		Name: xml.Name{Local: "v:Envelope"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns:v"}, Value: e.Version.EnvelopeNamespace()},
			{Name: xml.Name{Local: "xmlns:d"}, Value: NsXSD},
			{Name: xml.Name{Local: "xmlns:i"}, Value: NsXSI},
		},
	}
	if err := enc.EncodeToken(envStart); err != nil {
		return err
	}

	// An empty header block is always written; some peers require the
	// element to be present.
	hdr := xml.StartElement{Name: xml.Name{Local: "v:Header"}}
	if err := enc.EncodeToken(hdr); err != nil {
		return err
	}
	if err := enc.EncodeToken(hdr.End()); err != nil {
		return err
	}

	body := xml.StartElement{Name: xml.Name{Local: "v:Body"}}
	if err := enc.EncodeToken(body); err != nil {
		return err
	}
	if e.BodyOut != nil {
		if err := writeObject(enc, e.BodyOut); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(body.End()); err != nil {
		return err
	}
	return enc.EncodeToken(envStart.End())
}

// writeObject writes the body root with its namespace bound to the n0
// prefix, then its properties as unprefixed child elements.
func writeObject(enc *xml.Encoder, o *Object) error {
	start := xml.StartElement{Name: xml.Name{Local: "n0:" + o.Name}}
	if o.Namespace != "" {
		start.Attr = []xml.Attr{{Name: xml.Name{Local: "xmlns:n0"}, Value: o.Namespace}}
	} else {
		start.Name.Local = o.Name
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for i := 0; i < o.PropertyCount(); i++ {
		if err := writeProperty(enc, o.PropertyInfo(i)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func writeProperty(enc *xml.Encoder, p PropertyInfo) error {
	start := xml.StartElement{Name: xml.Name{Local: p.Name}}
	if p.Value == nil {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "i:nil"}, Value: "true"})
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		return enc.EncodeToken(start.End())
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if nested, ok := p.Value.(*Object); ok {
		for i := 0; i < nested.PropertyCount(); i++ {
			if err := writeProperty(enc, nested.PropertyInfo(i)); err != nil {
				return err
			}
		}
	} else {
		if err := enc.EncodeToken(xml.CharData(valueText(p.Value))); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// ParseXML reads one envelope from the supplied pull parser and populates
// BodyIn with either the decoded payload or a Fault.
func (e *Envelope) ParseXML(dec *xml.Decoder) error {
	if err := e.parseDocument(dec); err != nil {
		if err == io.EOF {
			return fmt.Errorf("soap: document contains no envelope")
		}
		return err
	}
	return nil
}

func (e *Envelope) parseDocument(dec *xml.Decoder) error {
	// Locate the document element.
	var envStart xml.StartElement
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "Envelope" {
			return fmt.Errorf("soap: unexpected document element %q", se.Name.Local)
		}
		envStart = se
		break
	}

	sawBody := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Header":
				if err := dec.Skip(); err != nil {
					return err
				}
			case "Body":
				sawBody = true
				if err := e.parseBody(dec, t); err != nil {
					return err
				}
			default:
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name == envStart.Name {
				if !sawBody {
					return fmt.Errorf("soap: envelope contains no body")
				}
				return nil
			}
		}
	}
}

// parseBody decodes the first element of the body into BodyIn. Additional
// sibling elements are not WS-I compliant and are skipped.
func (e *Envelope) parseBody(dec *xml.Decoder, start xml.StartElement) error {
	consumed := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if consumed {
				if err := dec.Skip(); err != nil {
					return err
				}
				continue
			}
			consumed = true
			if t.Name.Local == "Fault" {
				fault, err := parseFault(dec, t)
				if err != nil {
					return err
				}
				e.BodyIn = Body{Fault: fault}
			} else {
				value, err := parseElement(dec, t)
				if err != nil {
					return err
				}
				e.BodyIn = Body{Value: value}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// parseElement decodes the subtree of start. Elements with child elements
// become an *Object whose properties are the children in document order;
// text-only elements become a Primitive.
func parseElement(dec *xml.Decoder, start xml.StartElement) (any, error) {
	var text strings.Builder
	var props []PropertyInfo
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			value, err := parseElement(dec, t)
			if err != nil {
				return nil, err
			}
			props = append(props, PropertyInfo{Name: t.Name.Local, Value: value, Type: declaredTypeOf(value)})
		case xml.EndElement:
			if len(props) > 0 {
				obj := NewObject(start.Name.Space, start.Name.Local)
				obj.properties = props
				return obj, nil
			}
			return Primitive{
				Namespace: start.Name.Space,
				Name:      start.Name.Local,
				Value:     strings.TrimSpace(text.String()),
			}, nil
		}
	}
}

func declaredTypeOf(v any) string {
	if _, ok := v.(*Object); ok {
		return TypeObject
	}
	return TypeString
}

// DecodeBytes decodes a base64 leaf value back into raw bytes.
func DecodeBytes(v any) ([]byte, error) {
	if b, ok := v.([]byte); ok {
		return b, nil
	}
	return base64.StdEncoding.DecodeString(valueText(v))
}
