package submission

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/tidwall/sjson"

	"github.com/goliatone/go-catalog/internal/logging"
	"github.com/goliatone/go-catalog/internal/media"
	"github.com/goliatone/go-catalog/pkg/interfaces"
)

const (
	boundaryPrefix      = "catalog-"
	maxBoundaryAttempts = 16
	jsonContentType     = "application/json"
)

var errBoundaryExhausted = errors.New("submission: could not derive a multipart boundary")

// Option customises the builder.
type Option func(*Builder)

// WithLogger injects the logger used for build diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(b *Builder) {
		if logger == nil {
			b.logger = logging.NoOp()
			return
		}
		b.logger = logger
	}
}

// WithSchemaValidation checks JSON bodies against a schema generated from
// the declared fields before returning them.
func WithSchemaValidation(enabled bool) Option {
	return func(b *Builder) {
		b.validateSchema = enabled
	}
}

// Builder turns declared fields and settled media snapshots into a Payload.
// It holds no per-build state and is safe for concurrent use.
type Builder struct {
	logger         interfaces.Logger
	validateSchema bool
}

// NewBuilder constructs a builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Decide picks multipart when any slot holds a pending file, JSON otherwise.
func Decide(slots []media.Snapshot) Encoding {
	for _, snap := range slots {
		if snap.HasPending() {
			return EncodingMultipart
		}
	}
	return EncodingJSON
}

// Build encodes fields followed by slots. Identical inputs produce
// byte-identical payloads.
func (b *Builder) Build(fields []Field, slots []media.Snapshot) (Payload, error) {
	if err := checkNames(fields, slots); err != nil {
		return Payload{}, err
	}

	var (
		payload Payload
		err     error
	)
	switch Decide(slots) {
	case EncodingMultipart:
		payload, err = buildMultipart(fields, slots)
	default:
		payload, err = buildJSON(fields, slots)
		if err == nil && b.validateSchema {
			err = validateJSONBody(fields, slots, payload.Body)
		}
	}
	if err != nil {
		b.logger.Error("submission.build.failed", "error", err)
		return Payload{}, err
	}

	b.logger.Debug("submission.build.completed",
		"encoding", string(payload.Encoding),
		"fields", len(fields),
		"slots", len(slots),
		"bytes", len(payload.Body),
	)
	return payload, nil
}

func checkNames(fields []Field, slots []media.Snapshot) error {
	seen := make(map[string]struct{}, len(fields)+2*len(slots))
	claim := func(name string) error {
		if strings.TrimSpace(name) == "" {
			return ErrFieldNameRequired
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("%w: %s", ErrFieldCollision, name)
		}
		seen[name] = struct{}{}
		return nil
	}
	for _, field := range fields {
		if err := claim(field.Name); err != nil {
			return err
		}
	}
	for _, snap := range slots {
		if strings.TrimSpace(snap.Binding.Slot) == "" {
			return ErrFieldNameRequired
		}
		fileField, urlField := snap.Binding.Fields()
		if err := claim(fileField); err != nil {
			return err
		}
		if err := claim(urlField); err != nil {
			return err
		}
	}
	return nil
}

// urlContribution returns the JSON value a slot sends under its URL field.
// Single slots send the URL, or "" when an original asset was cleared;
// galleries send the retained URL list whenever they hold or held remote items.
func urlContribution(snap media.Snapshot) ([]byte, bool, error) {
	if snap.Binding.Gallery {
		urls := snap.RemoteURLs()
		if len(urls) == 0 && len(snap.Original) == 0 {
			return nil, false, nil
		}
		raw, err := json.Marshal(urls)
		return raw, true, err
	}
	if urls := snap.RemoteURLs(); len(urls) > 0 {
		raw, err := json.Marshal(urls[0])
		return raw, true, err
	}
	if snap.Cleared() {
		return []byte(`""`), true, nil
	}
	return nil, false, nil
}

func buildJSON(fields []Field, slots []media.Snapshot) (Payload, error) {
	body := []byte("{}")
	for _, field := range fields {
		if field.skip() {
			continue
		}
		raw, err := field.jsonValue()
		if err != nil {
			return Payload{}, err
		}
		if body, err = sjson.SetRawBytes(body, pathKey(field.Name), raw); err != nil {
			return Payload{}, fmt.Errorf("submission: set %s: %w", field.Name, err)
		}
	}
	for _, snap := range slots {
		raw, include, err := urlContribution(snap)
		if err != nil {
			return Payload{}, err
		}
		if !include {
			continue
		}
		_, urlField := snap.Binding.Fields()
		if body, err = sjson.SetRawBytes(body, pathKey(urlField), raw); err != nil {
			return Payload{}, fmt.Errorf("submission: set %s: %w", urlField, err)
		}
	}
	return Payload{
		Encoding:    EncodingJSON,
		ContentType: jsonContentType,
		Body:        body,
	}, nil
}

type formPart struct {
	name  string
	value string
	file  *media.File
}

func collectParts(fields []Field, slots []media.Snapshot) ([]formPart, error) {
	parts := make([]formPart, 0, len(fields)+len(slots))
	for _, field := range fields {
		if field.skip() {
			continue
		}
		value, err := field.formValue()
		if err != nil {
			return nil, err
		}
		parts = append(parts, formPart{name: field.Name, value: value})
	}
	for _, snap := range slots {
		fileField, urlField := snap.Binding.Fields()
		for _, file := range snap.PendingFiles() {
			file := file
			parts = append(parts, formPart{name: fileField, file: &file})
		}
		raw, include, err := urlContribution(snap)
		if err != nil {
			return nil, err
		}
		if !include {
			continue
		}
		value := string(raw)
		if !snap.Binding.Gallery {
			// Single URLs travel as the bare string, not its JSON quoting.
			if err := json.Unmarshal(raw, &value); err != nil {
				return nil, err
			}
		}
		parts = append(parts, formPart{name: urlField, value: value})
	}
	return parts, nil
}

func buildMultipart(fields []Field, slots []media.Snapshot) (Payload, error) {
	parts, err := collectParts(fields, slots)
	if err != nil {
		return Payload{}, err
	}
	boundary, err := deriveBoundary(parts)
	if err != nil {
		return Payload{}, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.SetBoundary(boundary); err != nil {
		return Payload{}, fmt.Errorf("submission: set boundary: %w", err)
	}
	for _, part := range parts {
		if part.file == nil {
			if err := writer.WriteField(part.name, part.value); err != nil {
				return Payload{}, fmt.Errorf("submission: write %s: %w", part.name, err)
			}
			continue
		}
		header := make(textproto.MIMEHeader)
		filename := part.file.Name
		if filename == "" {
			filename = part.name
		}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(part.name), escapeQuotes(filename)))
		contentType := part.file.MimeType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		w, err := writer.CreatePart(header)
		if err != nil {
			return Payload{}, fmt.Errorf("submission: create part %s: %w", part.name, err)
		}
		if _, err := w.Write(part.file.Data); err != nil {
			return Payload{}, fmt.Errorf("submission: write part %s: %w", part.name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return Payload{}, fmt.Errorf("submission: close multipart: %w", err)
	}
	return Payload{
		Encoding:    EncodingMultipart,
		ContentType: writer.FormDataContentType(),
		Body:        buf.Bytes(),
		Boundary:    boundary,
	}, nil
}

// deriveBoundary hashes the part contents so the boundary is stable for a
// given input and does not occur inside any part.
func deriveBoundary(parts []formPart) (string, error) {
	separator := []byte{0}
	for attempt := uint64(0); attempt < maxBoundaryAttempts; attempt++ {
		digest := xxhash.New()
		var seed [8]byte
		binary.BigEndian.PutUint64(seed[:], attempt)
		_, _ = digest.Write(seed[:])
		for _, part := range parts {
			_, _ = digest.WriteString(part.name)
			_, _ = digest.Write(separator)
			_, _ = digest.WriteString(part.value)
			if part.file != nil {
				_, _ = digest.WriteString(part.file.Name)
				_, _ = digest.WriteString(part.file.MimeType)
				_, _ = digest.Write(part.file.Data)
			}
			_, _ = digest.Write(separator)
		}
		boundary := fmt.Sprintf("%s%016x", boundaryPrefix, digest.Sum64())
		if !boundaryCollides(parts, boundary) {
			return boundary, nil
		}
	}
	return "", errBoundaryExhausted
}

func boundaryCollides(parts []formPart, boundary string) bool {
	needle := []byte(boundary)
	for _, part := range parts {
		if strings.Contains(part.value, boundary) || strings.Contains(part.name, boundary) {
			return true
		}
		if part.file != nil && (bytes.Contains(part.file.Data, needle) || strings.Contains(part.file.Name, boundary)) {
			return true
		}
	}
	return false
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

var pathEscaper = strings.NewReplacer(`\`, `\\`, ".", `\.`, "*", `\*`, "?", `\?`)

// pathKey escapes a wire name for use as a single sjson path segment.
func pathKey(name string) string {
	return pathEscaper.Replace(name)
}
