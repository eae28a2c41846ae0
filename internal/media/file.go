package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// File is a locally chosen asset that has not been uploaded yet.
type File struct {
	Name     string
	MimeType string
	Size     int64
	Data     []byte
}

// NewFile wraps data, inferring the mime type when none is supplied.
func NewFile(name, mimeType string, data []byte) File {
	if strings.TrimSpace(mimeType) == "" {
		mimeType = DetectMimeType(name, data)
	}
	return File{
		Name:     filepath.Base(name),
		MimeType: mimeType,
		Size:     int64(len(data)),
		Data:     data,
	}
}

// ReadFile reads r into a File. Reading stops after limit+1 bytes so an
// oversized source is reported without buffering it whole; a limit <= 0
// reads everything.
func ReadFile(ctx context.Context, name, mimeType string, r io.Reader, limit int64) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	source := r
	if limit > 0 {
		source = io.LimitReader(r, limit+1)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, source); err != nil {
		return File{}, fmt.Errorf("media: read %s: %w", name, err)
	}
	if limit > 0 && int64(buf.Len()) > limit {
		return File{}, fmt.Errorf("%w: %s", ErrFileTooLarge, name)
	}
	return NewFile(name, mimeType, buf.Bytes()), nil
}

// DetectMimeType resolves a mime type from the file extension, falling back
// to content sniffing.
func DetectMimeType(name string, data []byte) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			if parsed, _, err := mime.ParseMediaType(byExt); err == nil {
				return parsed
			}
			return byExt
		}
	}
	if len(data) == 0 {
		return "application/octet-stream"
	}
	sniffed := http.DetectContentType(data)
	if parsed, _, err := mime.ParseMediaType(sniffed); err == nil {
		return parsed
	}
	return sniffed
}

func (f File) clone() File {
	f.Data = append([]byte(nil), f.Data...)
	return f
}
