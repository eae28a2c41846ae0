package submission

import (
	"bytes"
	"errors"
	"io"
)

var (
	// ErrFieldCollision reports two contributions under the same wire name.
	ErrFieldCollision = errors.New("submission: duplicate field name")
	// ErrFieldNameRequired reports a field or slot without a wire name.
	ErrFieldNameRequired = errors.New("submission: field name is required")
	// ErrNotArray reports an array field whose value is not a JSON array.
	ErrNotArray = errors.New("submission: value is not an array")
	// ErrSchemaViolation reports a JSON body that fails its generated schema.
	ErrSchemaViolation = errors.New("submission: payload does not match schema")
)

// Encoding selects the request body format.
type Encoding string

const (
	EncodingJSON      Encoding = "json"
	EncodingMultipart Encoding = "multipart"
)

// Payload is the outbound body handed to a transport.
type Payload struct {
	Encoding    Encoding
	ContentType string
	Body        []byte
	// Boundary is set for multipart payloads.
	Boundary string
}

// Reader returns a fresh reader over Body.
func (p Payload) Reader() io.Reader {
	return bytes.NewReader(p.Body)
}

// IsMultipart reports whether the payload is multipart encoded.
func (p Payload) IsMultipart() bool {
	return p.Encoding == EncodingMultipart
}
