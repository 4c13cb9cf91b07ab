// Package transport implements the call lifecycle of a SOAP client: it
// encodes an envelope into request bytes, hands them to an Exchanger for
// the network exchange, and decodes the response bytes back into the
// envelope, in either simple or multipart mode.
//
// The package separates three concerns:
//
//   - the codec (EncodeEnvelope, DecodeEnvelope, DecodeMultipart), which
//     knows the wire framing but nothing about networking
//   - the Exchanger capability, which performs one request/response
//     exchange and nothing else
//   - the Client, which wires the two together and carries the per-target
//     configuration (URL, timeout, proxy, XML prolog, multipart flag)
//
// HTTPExchanger is the bundled Exchanger for HTTP and HTTPS endpoints.
// Implementations for other carriers only need to satisfy Exchanger.
package transport
