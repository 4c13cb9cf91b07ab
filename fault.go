package soap

import (
	"encoding/xml"
	"errors"
	"strings"
)

// Fault is a SOAP fault decoded from a response body. It is surfaced to
// callers as the error of the call rather than as a normal result.
type Fault struct {
	// Code is the fault code, e.g. "soap:Client".
	Code string

	// String is the human-readable fault reason.
	String string

	// Actor identifies the node that generated the fault (SOAP 1.1 only).
	Actor string

	// Detail is the raw character content of the detail element.
	Detail string
}

// Error implements the error interface.
func (f *Fault) Error() string {
	var parts []string
	if f.Code != "" {
		parts = append(parts, f.Code)
	}
	if f.String != "" {
		parts = append(parts, f.String)
	}
	return "soap: fault: " + strings.Join(parts, ": ")
}

// IsFault returns true if the error is (or wraps) a SOAP Fault.
func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}

// parseFault decodes a Fault element. The decoder is positioned just after
// the fault start element. Both the SOAP 1.1 grammar (faultcode,
// faultstring, faultactor, detail) and the SOAP 1.2 grammar (Code/Value,
// Reason/Text, Detail) are accepted, since peers answer with either.
func parseFault(dec *xml.Decoder, start xml.StartElement) (*Fault, error) {
	f := &Fault{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "faultcode", "Code":
				text, err := collectText(dec, t)
				if err != nil {
					return nil, err
				}
				f.Code = text
			case "faultstring", "Reason":
				text, err := collectText(dec, t)
				if err != nil {
					return nil, err
				}
				f.String = text
			case "faultactor", "Node":
				text, err := collectText(dec, t)
				if err != nil {
					return nil, err
				}
				f.Actor = text
			case "detail", "Detail":
				text, err := collectText(dec, t)
				if err != nil {
					return nil, err
				}
				f.Detail = text
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return f, nil
			}
		}
	}
}

// collectText gathers all character data in the subtree of start, which
// flattens wrappers like the SOAP 1.2 Code/Value pair.
func collectText(dec *xml.Decoder, start xml.StartElement) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(tok.(xml.CharData))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
