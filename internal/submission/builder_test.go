package submission_test

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-catalog/internal/locale"
	"github.com/goliatone/go-catalog/internal/media"
	"github.com/goliatone/go-catalog/internal/submission"
)

func imageBinding() media.Binding {
	return media.Binding{Slot: "image", FileField: "image", URLField: "imageUrl", Policy: media.ImagePolicy(), Publishable: true}
}

func galleryBinding() media.Binding {
	return media.Binding{Slot: "gallery", Gallery: true, Policy: media.GalleryPolicy(3)}
}

func categoryFields() []submission.Field {
	return []submission.Field{
		submission.Localized("name", locale.NewText("ტესტი", "Test", "")),
		submission.Localized("description", nil),
		submission.Bool("isActive", true),
		submission.Bool("isPublished", false),
		submission.Int("sortOrder", 3),
		submission.Array("tags", []string{"core", "mobility"}),
	}
}

func snapshot(t *testing.T, att *media.Attachment) media.Snapshot {
	t.Helper()
	snap, err := att.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snap
}

func TestDecideEncoding(t *testing.T) {
	remote := media.NewAttachment(imageBinding(), media.RemoteSlot("https://cdn.local/a.png"))
	empty := media.NewAttachment(media.Binding{Slot: "thumbnail", FileField: "thumbnailFile", URLField: "thumbnailUrl", Policy: media.ImagePolicy()}, media.EmptySlot())

	slots := []media.Snapshot{snapshot(t, remote), snapshot(t, empty)}
	if got := submission.Decide(slots); got != submission.EncodingJSON {
		t.Fatalf("expected json, got %s", got)
	}

	if err := empty.SelectFile(media.NewFile("thumb.png", "image/png", []byte("png"))); err != nil {
		t.Fatalf("select file: %v", err)
	}
	slots = []media.Snapshot{snapshot(t, remote), snapshot(t, empty)}
	if got := submission.Decide(slots); got != submission.EncodingMultipart {
		t.Fatalf("expected multipart, got %s", got)
	}
}

func TestBuildJSONUsesNativeTypesInDeclarationOrder(t *testing.T) {
	att := media.NewAttachment(imageBinding(), media.RemoteSlot("https://x/y.png"))

	payload, err := submission.NewBuilder(submission.WithSchemaValidation(true)).
		Build(categoryFields(), []media.Snapshot{snapshot(t, att)})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if payload.Encoding != submission.EncodingJSON || payload.ContentType != "application/json" {
		t.Fatalf("unexpected encoding %s / %s", payload.Encoding, payload.ContentType)
	}
	if !gjson.ValidBytes(payload.Body) {
		t.Fatalf("invalid json: %s", payload.Body)
	}

	var keys []string
	gjson.ParseBytes(payload.Body).ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	want := []string{"name", "description", "isActive", "isPublished", "sortOrder", "tags", "imageUrl"}
	if len(keys) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d: expected %s, got %s", i, want[i], keys[i])
		}
	}

	body := gjson.ParseBytes(payload.Body)
	if body.Get("name").Raw != `{"ka":"ტესტი","en":"Test","ru":""}` {
		t.Fatalf("unexpected name encoding %s", body.Get("name").Raw)
	}
	if body.Get("description").Raw != `{"ka":"","en":"","ru":""}` {
		t.Fatalf("unexpected description encoding %s", body.Get("description").Raw)
	}
	if body.Get("isActive").Type != gjson.True || body.Get("isPublished").Type != gjson.False {
		t.Fatalf("expected native booleans, got %s", payload.Body)
	}
	if body.Get("sortOrder").Type != gjson.Number || body.Get("sortOrder").Int() != 3 {
		t.Fatalf("expected native number, got %s", body.Get("sortOrder").Raw)
	}
	if body.Get("tags").Raw != `["core","mobility"]` {
		t.Fatalf("unexpected tags %s", body.Get("tags").Raw)
	}
	if body.Get("imageUrl").String() != "https://x/y.png" {
		t.Fatalf("unexpected imageUrl %s", body.Get("imageUrl").Raw)
	}
	if body.Get("image").Exists() {
		t.Fatal("file field must not appear in a json body")
	}
}

func TestBuildSendsRemovalMarkerForClearedOriginal(t *testing.T) {
	att := media.NewAttachment(imageBinding(), media.RemoteSlot("https://x/y.png"))
	att.Remove()

	payload, err := submission.NewBuilder().Build(categoryFields(), []media.Snapshot{snapshot(t, att)})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	marker := gjson.GetBytes(payload.Body, "imageUrl")
	if !marker.Exists() || marker.Type != gjson.String || marker.String() != "" {
		t.Fatalf("expected explicit empty imageUrl, got %q in %s", marker.Raw, payload.Body)
	}

	untouched := media.NewAttachment(imageBinding(), media.EmptySlot())
	payload, err = submission.NewBuilder().Build(categoryFields(), []media.Snapshot{snapshot(t, untouched)})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if gjson.GetBytes(payload.Body, "imageUrl").Exists() {
		t.Fatalf("expected no imageUrl for a slot that never held an asset, got %s", payload.Body)
	}
}

func TestBuildGalleryRemovalSendsEmptyList(t *testing.T) {
	gallery := media.NewCollection(galleryBinding(), []media.Slot{
		media.RemoteSlot("https://cdn.local/1.png"),
		media.RemoteSlot("https://cdn.local/2.png"),
	})
	gallery.Clear()
	snap, err := gallery.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	payload, err := submission.NewBuilder().Build(nil, []media.Snapshot{snap})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if raw := gjson.GetBytes(payload.Body, "galleryUrl").Raw; raw != "[]" {
		t.Fatalf("expected [], got %q", raw)
	}
}

func TestBuildMultipartStringifiesStructuredFields(t *testing.T) {
	image := media.NewAttachment(imageBinding(), media.RemoteSlot("https://x/old.png"))
	if err := image.SelectFile(media.NewFile("cover.png", "image/png", []byte("\x89PNG-cover"))); err != nil {
		t.Fatalf("select file: %v", err)
	}
	gallery := media.NewCollection(galleryBinding(), []media.Slot{media.RemoteSlot("https://cdn.local/1.png")})
	if err := gallery.SelectFiles(media.NewFile("2.jpg", "image/jpeg", []byte("jpeg-bytes"))); err != nil {
		t.Fatalf("select gallery files: %v", err)
	}
	gallerySnap, err := gallery.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	fields := append(categoryFields(), submission.Float("price", 12.5))
	payload, err := submission.NewBuilder().Build(fields, []media.Snapshot{snapshot(t, image), gallerySnap})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !payload.IsMultipart() || payload.Boundary == "" {
		t.Fatalf("expected multipart payload, got %s", payload.Encoding)
	}
	if payload.ContentType != "multipart/form-data; boundary="+payload.Boundary {
		t.Fatalf("unexpected content type %q", payload.ContentType)
	}

	type part struct {
		name, filename, contentType, value string
	}
	var parts []part
	reader := multipart.NewReader(bytes.NewReader(payload.Body), payload.Boundary)
	for {
		p, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		data, err := io.ReadAll(p)
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		parts = append(parts, part{
			name:        p.FormName(),
			filename:    p.FileName(),
			contentType: p.Header.Get("Content-Type"),
			value:       string(data),
		})
	}

	want := []part{
		{name: "name", value: `{"ka":"ტესტი","en":"Test","ru":""}`},
		{name: "description", value: `{"ka":"","en":"","ru":""}`},
		{name: "isActive", value: "true"},
		{name: "isPublished", value: "false"},
		{name: "sortOrder", value: "3"},
		{name: "tags", value: `["core","mobility"]`},
		{name: "price", value: "12.5"},
		{name: "image", filename: "cover.png", contentType: "image/png", value: "\x89PNG-cover"},
		{name: "gallery", filename: "2.jpg", contentType: "image/jpeg", value: "jpeg-bytes"},
		{name: "galleryUrl", value: `["https://cdn.local/1.png"]`},
	}
	if len(parts) != len(want) {
		t.Fatalf("expected %d parts, got %d: %+v", len(want), len(parts), parts)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Fatalf("part %d: expected %+v, got %+v", i, want[i], parts[i])
		}
	}
}

func TestBuildIsByteIdentical(t *testing.T) {
	image := media.NewAttachment(imageBinding(), media.EmptySlot())
	if err := image.SelectFile(media.NewFile("cover.png", "image/png", []byte("cover"))); err != nil {
		t.Fatalf("select file: %v", err)
	}
	remote := media.NewAttachment(imageBinding(), media.RemoteSlot("https://x/y.png"))

	builder := submission.NewBuilder()
	for name, slots := range map[string][]media.Snapshot{
		"json":      {snapshot(t, remote)},
		"multipart": {snapshot(t, image)},
	} {
		t.Run(name, func(t *testing.T) {
			first, err := builder.Build(categoryFields(), slots)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			second, err := builder.Build(categoryFields(), slots)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if first.Encoding != second.Encoding || first.ContentType != second.ContentType {
				t.Fatalf("encoding drifted: %s/%s", first.ContentType, second.ContentType)
			}
			if !bytes.Equal(first.Body, second.Body) {
				t.Fatal("expected byte-identical bodies")
			}
		})
	}
}

func TestBuildBoundaryDependsOnContent(t *testing.T) {
	build := func(data string) submission.Payload {
		att := media.NewAttachment(imageBinding(), media.EmptySlot())
		if err := att.SelectFile(media.NewFile("a.png", "image/png", []byte(data))); err != nil {
			t.Fatalf("select file: %v", err)
		}
		payload, err := submission.NewBuilder().Build(nil, []media.Snapshot{snapshot(t, att)})
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		return payload
	}
	first, second := build("one"), build("two")
	if first.Boundary == second.Boundary {
		t.Fatalf("expected different boundaries, got %s", first.Boundary)
	}
}

func TestBuildRejectsInvalidFields(t *testing.T) {
	att := media.NewAttachment(imageBinding(), media.EmptySlot())
	builder := submission.NewBuilder()

	cases := []struct {
		name   string
		fields []submission.Field
		want   error
	}{
		{name: "collision with url field", fields: []submission.Field{submission.String("imageUrl", "x")}, want: submission.ErrFieldCollision},
		{name: "duplicate field", fields: []submission.Field{submission.Bool("isActive", true), submission.Bool("isActive", false)}, want: submission.ErrFieldCollision},
		{name: "blank name", fields: []submission.Field{submission.String(" ", "x")}, want: submission.ErrFieldNameRequired},
		{name: "non array", fields: []submission.Field{submission.Array("tags", "core")}, want: submission.ErrNotArray},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builder.Build(tc.fields, []media.Snapshot{snapshot(t, att)})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestOptionalStringAndNilArray(t *testing.T) {
	payload, err := submission.NewBuilder().Build([]submission.Field{
		submission.OptionalString("categoryId", ""),
		submission.OptionalString("setId", "64b7f0c2a1b2c3d4e5f60718"),
		submission.Array("prices", nil),
	}, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	body := gjson.ParseBytes(payload.Body)
	if body.Get("categoryId").Exists() {
		t.Fatalf("expected empty optional field to be skipped: %s", payload.Body)
	}
	if body.Get("setId").String() != "64b7f0c2a1b2c3d4e5f60718" {
		t.Fatalf("unexpected setId %s", body.Get("setId").Raw)
	}
	if body.Get("prices").Raw != "[]" {
		t.Fatalf("expected nil array as [], got %s", body.Get("prices").Raw)
	}
}
