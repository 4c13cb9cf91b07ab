// Package mimepart splits and builds the multipart wire format used by
// attachment-bearing SOAP exchanges: a preamble block carrying the primary
// XML document, followed by MIME parts carrying attachments.
package mimepart

import (
	"bytes"
	"io"
	"mime/multipart"
	"strings"
)

// Reader demultiplexes a multipart stream. The boundary token is
// discovered from the stream itself: the first line of the form
// "--token" is taken as the dash-boundary, everything before it is the
// preamble. Part iteration after the preamble follows standard MIME
// framing.
//
// A stream with no boundary line is not an error at this level; it yields
// an empty Boundary and the whole stream as preamble, and the caller owns
// the validation gate.
type Reader struct {
	boundary string
	preamble []byte
	parts    *multipart.Reader
}

// NewReader buffers the stream and locates its boundary. It fails only
// when reading the stream fails.
func NewReader(r io.Reader) (*Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	boundary, preamble, rest := splitPreamble(data)
	rd := &Reader{boundary: boundary, preamble: preamble}
	if boundary != "" {
		rd.parts = multipart.NewReader(bytes.NewReader(rest), boundary)
	}
	return rd, nil
}

// Boundary returns the discovered boundary token, or "" when the stream
// declares none.
func (r *Reader) Boundary() string {
	return r.boundary
}

// Preamble returns the bytes preceding the first boundary marker, without
// the line break that belongs to the boundary delimiter.
func (r *Reader) Preamble() []byte {
	return r.preamble
}

// NextPartData advances to the next part and reads its payload in full,
// verbatim: no transfer decoding is applied. It returns io.EOF after the
// last part, and io.EOF immediately when the stream has no boundary.
func (r *Reader) NextPartData() ([]byte, error) {
	if r.parts == nil {
		return nil, io.EOF
	}
	part, err := r.parts.NextRawPart()
	if err != nil {
		return nil, err
	}
	defer part.Close()
	return io.ReadAll(part)
}

// splitPreamble scans for the first dash-boundary line and returns the
// boundary token, the preamble before it, and the remainder starting at
// the boundary line.
func splitPreamble(data []byte) (boundary string, preamble, rest []byte) {
	offset := 0
	for offset < len(data) {
		lineEnd := bytes.IndexByte(data[offset:], '\n')
		var line []byte
		next := len(data)
		if lineEnd >= 0 {
			line = data[offset : offset+lineEnd]
			next = offset + lineEnd + 1
		} else {
			line = data[offset:]
		}
		trimmed := bytes.TrimRight(line, "\r")
		if token := boundaryToken(trimmed); token != "" {
			return token, trimEOL(data[:offset]), data[offset:]
		}
		offset = next
	}
	return "", data, nil
}

// boundaryToken extracts the token from a dash-boundary line, stripping
// the trailing dashes of a close delimiter. It returns "" for lines that
// are not boundaries.
func boundaryToken(line []byte) string {
	if !bytes.HasPrefix(line, []byte("--")) || len(line) <= 2 {
		return ""
	}
	return strings.TrimSuffix(string(line[2:]), "--")
}

// trimEOL drops the final line break, which frames the following boundary
// rather than ending the preamble.
func trimEOL(data []byte) []byte {
	data = bytes.TrimSuffix(data, []byte("\n"))
	return bytes.TrimSuffix(data, []byte("\r"))
}
