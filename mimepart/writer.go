package mimepart

import (
	"io"
	"mime/multipart"
	"net/textproto"

	"github.com/google/uuid"
)

// Writer builds a multipart/related request body: one SOAP part followed
// by any number of attachment parts. Close must be called to write the
// trailing boundary.
type Writer struct {
	mw *multipart.Writer
}

// NewWriter creates a Writer over w with a freshly generated boundary.
func NewWriter(w io.Writer) *Writer {
	mw := multipart.NewWriter(w)
	// The generated token only contains characters valid in a boundary,
	// so SetBoundary cannot fail here.
	_ = mw.SetBoundary("----=_Part_" + uuid.NewString())
	return &Writer{mw: mw}
}

// Boundary returns the boundary token in use.
func (w *Writer) Boundary() string {
	return w.mw.Boundary()
}

// ContentType returns the Content-Type header value announcing this body.
func (w *Writer) ContentType() string {
	return `multipart/related; type="application/soap+xml"; boundary="` + w.mw.Boundary() + `"`
}

// WriteEnvelope writes the serialized SOAP document as the first part.
func (w *Writer) WriteEnvelope(data []byte) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", "application/soap+xml;charset=utf-8")
	h.Set("Content-Transfer-Encoding", "8bit")
	h.Set("Content-ID", contentID("envelope"))
	return w.writePart(h, data)
}

// WriteAttachment writes one binary attachment part.
func (w *Writer) WriteAttachment(name string, data []byte) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", "application/octet-stream")
	h.Set("Content-Transfer-Encoding", "binary")
	h.Set("Content-ID", contentID(name))
	return w.writePart(h, data)
}

// Close writes the closing boundary.
func (w *Writer) Close() error {
	return w.mw.Close()
}

func (w *Writer) writePart(h textproto.MIMEHeader, data []byte) error {
	pw, err := w.mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = pw.Write(data)
	return err
}

func contentID(name string) string {
	return "<" + name + "-" + uuid.NewString() + ">"
}
