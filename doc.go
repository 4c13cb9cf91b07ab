// Package soap provides the transport core of a SOAP client: envelope
// serialization to wire bytes, response deserialization, and demultiplexing
// of multipart responses that carry a binary attachment next to the XML body.
//
// # Architecture
//
// The module is organized into layers:
//
//	┌─────────────────────────────────────────────────────────┐
//	│  transport/    call contract, codec, HTTP exchanger     │
//	├─────────────────────────────────────────────────────────┤
//	│  mimepart/     multipart framing (preamble + parts)     │
//	├─────────────────────────────────────────────────────────┤
//	│  soap (root)   envelope model, property bags, faults    │
//	└─────────────────────────────────────────────────────────┘
//
// The root package holds the data model only. An Envelope carries an
// outgoing body (BodyOut) and receives a decoded body (BodyIn) after a
// call; the decoded body is either a payload value or a *Fault, never
// both. Payloads decode into Object, an ordered property bag with indexed
// and by-name access, or into Primitive for text-only elements.
//
// # Quick Start
//
//	exch := transport.NewHTTPExchanger()
//	client := transport.NewClient("https://example.com/service", exch)
//
//	env := soap.NewEnvelope(soap.Version11)
//	env.BodyOut = soap.NewObject("urn:example", "GetReport").
//		AddProperty("id", "42")
//
//	headers, err := client.Call(ctx, "urn:example/GetReport", env)
//	if err != nil {
//		var fault *soap.Fault
//		if errors.As(err, &fault) {
//			// the peer answered with a SOAP fault
//		}
//		return err
//	}
//
// Calls are synchronous and one-shot; nothing is retried inside this
// module. A Client keeps only configuration between calls and must not be
// shared between concurrent calls without external synchronization.
package soap
