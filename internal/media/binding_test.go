package media_test

import (
	"testing"

	"github.com/goliatone/go-catalog/internal/media"
)

func TestCloneBindingSetNil(t *testing.T) {
	if media.CloneBindingSet(nil) != nil {
		t.Fatalf("expected nil clone for nil source")
	}
}

func TestCloneBindingSetDeepCopy(t *testing.T) {
	original := media.BindingSet{
		{Slot: "image", Policy: media.ImagePolicy()},
		{Slot: "gallery", Gallery: true, Policy: media.GalleryPolicy(4)},
	}

	cloned := media.CloneBindingSet(original)
	original[0].Policy.AllowedPrefixes[0] = "mutated/"

	if cloned[0].Policy.AllowedPrefixes[0] != "image/" {
		t.Fatalf("expected cloned policy to remain unaffected")
	}
	if binding, ok := cloned.Lookup("gallery"); !ok || binding.Policy.MaxFiles != 4 {
		t.Fatalf("expected gallery binding in clone, got %+v", binding)
	}
}

func TestBindingFieldsDefaults(t *testing.T) {
	file, url := media.Binding{Slot: "cover"}.Fields()
	if file != "cover" || url != "coverUrl" {
		t.Fatalf("unexpected defaults %q %q", file, url)
	}
	file, url = media.Binding{Slot: "video", FileField: "videoFile", URLField: "videoUrl"}.Fields()
	if file != "videoFile" || url != "videoUrl" {
		t.Fatalf("unexpected explicit names %q %q", file, url)
	}
}

func TestDetectMimeType(t *testing.T) {
	if got := media.DetectMimeType("photo.JPG", nil); got != "image/jpeg" {
		t.Fatalf("expected image/jpeg from extension, got %q", got)
	}
	png := []byte("\x89PNG\r\n\x1a\n0000")
	if got := media.DetectMimeType("noext", png); got != "image/png" {
		t.Fatalf("expected image/png from sniffing, got %q", got)
	}
}
