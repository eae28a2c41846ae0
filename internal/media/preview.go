package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// PreviewRenderer turns a pending file into a renderable preview source
// without a network round trip.
type PreviewRenderer interface {
	RenderPreview(ctx context.Context, file File) (string, error)
}

// PreviewRendererFunc adapts a function to PreviewRenderer.
type PreviewRendererFunc func(ctx context.Context, file File) (string, error)

// RenderPreview implements PreviewRenderer.
func (fn PreviewRendererFunc) RenderPreview(ctx context.Context, file File) (string, error) {
	return fn(ctx, file)
}

// DataURI encodes file as a base64 data URI.
func DataURI(file File) string {
	mimeType := strings.TrimSpace(file.MimeType)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(file.Data)
}

// DataURIRenderer embeds the file unchanged.
type DataURIRenderer struct{}

// RenderPreview implements PreviewRenderer.
func (DataURIRenderer) RenderPreview(ctx context.Context, file File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return DataURI(file), nil
}

// ThumbnailRenderer downsizes images before embedding them so large photos
// do not bloat the preview. Non-image files fall back to DataURI.
type ThumbnailRenderer struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// NewThumbnailRenderer returns a renderer bounded to 320x320 at JPEG quality 80.
func NewThumbnailRenderer() ThumbnailRenderer {
	return ThumbnailRenderer{MaxWidth: 320, MaxHeight: 320, Quality: 80}
}

// RenderPreview implements PreviewRenderer.
func (r ThumbnailRenderer) RenderPreview(ctx context.Context, file File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.HasPrefix(strings.ToLower(file.MimeType), "image/") {
		return DataURI(file), nil
	}
	img, err := imaging.Decode(bytes.NewReader(file.Data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("media: decode preview %s: %w", file.Name, err)
	}
	bounds := img.Bounds()
	width, height := r.MaxWidth, r.MaxHeight
	if width <= 0 {
		width = 320
	}
	if height <= 0 {
		height = 320
	}
	if bounds.Dx() > width || bounds.Dy() > height {
		img = imaging.Fit(img, width, height, imaging.Lanczos)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	quality := r.Quality
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return "", fmt.Errorf("media: encode preview %s: %w", file.Name, err)
	}
	return DataURI(File{MimeType: "image/jpeg", Data: buf.Bytes()}), nil
}
