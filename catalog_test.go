package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/internal/media"
)

const savedID = "64b7f0c2a1b2c3d4e5f60799"

type recordingAPI struct {
	payloads []catalog.Payload
	uploads  []string
	stored   map[string]catalog.Entity
}

func (a *recordingAPI) FetchEntity(_ context.Context, kind catalog.Kind, id string) (catalog.Entity, error) {
	e, ok := a.stored[id]
	if !ok {
		return catalog.Entity{}, errors.New("not found")
	}
	e.Kind = kind
	return e, nil
}

func (a *recordingAPI) SubmitEntity(_ context.Context, kind catalog.Kind, _ string, payload catalog.Payload) (catalog.Entity, error) {
	a.payloads = append(a.payloads, payload)
	if payload.IsMultipart() {
		return catalog.Entity{Kind: kind, ID: savedID}, nil
	}
	saved, err := catalog.DecodeEntity(kind, payload.Body)
	if err != nil {
		return catalog.Entity{}, err
	}
	saved.ID = savedID
	return saved, nil
}

func (a *recordingAPI) UploadMedia(_ context.Context, file catalog.File) (catalog.UploadResult, error) {
	a.uploads = append(a.uploads, file.Name)
	return catalog.UploadResult{URL: "https://cdn.local/" + file.Name}, nil
}

func newModule(t *testing.T, api catalog.ContentAPI) *catalog.Module {
	t.Helper()
	opts := []catalog.Option{}
	if api != nil {
		opts = append(opts, catalog.WithContentAPI(api))
	}
	module, err := catalog.New(catalog.DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(module.Close)
	return module
}

func TestModuleCourseRoundTrip(t *testing.T) {
	api := &recordingAPI{}
	module := newModule(t, api)

	form, err := module.NewForm(catalog.KindCourse)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if err := form.SetText("title", catalog.Georgian, "კურსი"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	gallery, err := form.Collection("gallery")
	if err != nil {
		t.Fatalf("gallery: %v", err)
	}
	if err := gallery.SelectFiles(
		media.NewFile("one.png", "image/png", []byte("one")),
		media.NewFile("two.png", "image/png", []byte("two")),
	); err != nil {
		t.Fatalf("select files: %v", err)
	}

	payload, err := form.Payload()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if !payload.IsMultipart() {
		t.Fatalf("expected multipart while files are pending, got %s", payload.Encoding)
	}

	if err := module.UploadPending(context.Background(), form.ID()); err != nil {
		t.Fatalf("upload pending: %v", err)
	}
	if len(api.uploads) != 2 || api.uploads[0] != "one.png" {
		t.Fatalf("unexpected uploads %v", api.uploads)
	}

	if err := module.Submit(context.Background(), form.ID()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(api.payloads) != 1 || api.payloads[0].IsMultipart() {
		t.Fatalf("expected one JSON submit after uploads, got %+v", api.payloads)
	}
	urls := gjson.GetBytes(api.payloads[0].Body, "galleryUrls").Array()
	if len(urls) != 2 || urls[1].String() != "https://cdn.local/two.png" {
		t.Fatalf("unexpected gallery urls %s", api.payloads[0].Body)
	}
	if form.Creating() {
		t.Fatal("expected the session to switch to update after submit")
	}
	if got := form.Original().MediaURLs("gallery"); len(got) != 2 {
		t.Fatalf("expected rebased gallery, got %v", got)
	}

	if !module.CloseForm(form.ID()) {
		t.Fatal("expected open session to close")
	}
	err = module.Submit(context.Background(), form.ID())
	if !errors.Is(err, catalog.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound after close, got %v", err)
	}
}

func TestModuleLoadForm(t *testing.T) {
	stored := catalog.Entity{ID: savedID, Name: catalog.NewText("", "Legs", "")}
	api := &recordingAPI{stored: map[string]catalog.Entity{savedID: stored}}
	module := newModule(t, api)

	form, err := module.LoadForm(context.Background(), catalog.KindCategory, savedID)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	if got, ok := module.Form(form.ID()); !ok || got != form {
		t.Fatal("expected loaded form to be registered")
	}
	if name := catalog.Resolve(form.Draft().Name, catalog.Georgian); name != "Legs" {
		t.Fatalf("expected fallback to english name, got %q", name)
	}

	if _, err := module.LoadForm(context.Background(), catalog.KindCategory, "nope"); !errors.Is(err, catalog.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestModuleWithoutContentAPI(t *testing.T) {
	module := newModule(t, nil)

	if _, err := module.LoadForm(context.Background(), catalog.KindCategory, savedID); !errors.Is(err, catalog.ErrContentAPIRequired) {
		t.Fatalf("expected ErrContentAPIRequired, got %v", err)
	}
	if err := module.RegisterCommands(); !errors.Is(err, catalog.ErrContentAPIRequired) {
		t.Fatalf("expected ErrContentAPIRequired from RegisterCommands, got %v", err)
	}

	form, err := module.NewForm(catalog.KindCategory)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if err := module.Submit(context.Background(), form.ID()); err == nil {
		t.Fatal("expected submit without a content api to fail")
	}
}

func TestConfigValidateThroughFacade(t *testing.T) {
	cfg := catalog.DefaultConfig()
	cfg.Commands.AutoRegisterDispatcher = true
	if _, err := catalog.New(cfg); !errors.Is(err, catalog.ErrCommandsDispatcherRequired) {
		t.Fatalf("expected ErrCommandsDispatcherRequired, got %v", err)
	}
}
