package formscmd_test

import (
	"context"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-command/dispatcher"
	goerrors "github.com/goliatone/go-errors"

	formscmd "github.com/goliatone/go-catalog/internal/commands/forms"
	"github.com/goliatone/go-catalog/internal/entities"
	"github.com/goliatone/go-catalog/internal/forms"
	"github.com/goliatone/go-catalog/internal/locale"
	"github.com/goliatone/go-catalog/internal/media"
	"github.com/goliatone/go-catalog/internal/submission"
)

const savedID = "64b7f0c2a1b2c3d4e5f60799"

type memoryStore map[string]*forms.Form

func (s memoryStore) Form(id string) (*forms.Form, bool) {
	form, ok := s[id]
	return form, ok
}

type stubAPI struct {
	submits int
	uploads int
	fail    error
}

func (s *stubAPI) FetchEntity(context.Context, entities.Kind, string) (entities.Entity, error) {
	return entities.Entity{}, errors.New("not implemented")
}

func (s *stubAPI) SubmitEntity(_ context.Context, kind entities.Kind, _ string, _ submission.Payload) (entities.Entity, error) {
	s.submits++
	if s.fail != nil {
		return entities.Entity{}, s.fail
	}
	e := entities.New(kind)
	e.ID = savedID
	e.Name = locale.NewText("ახალი", "", "")
	return e, nil
}

func (s *stubAPI) UploadMedia(_ context.Context, file media.File) (forms.UploadResult, error) {
	s.uploads++
	if s.fail != nil {
		return forms.UploadResult{}, s.fail
	}
	return forms.UploadResult{URL: "https://cdn.local/" + file.Name}, nil
}

func newCategoryForm(t *testing.T) *forms.Form {
	t.Helper()
	form, err := forms.New(entities.KindCategory)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if err := form.SetText("name", locale.Georgian, "ახალი"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	return form
}

func TestMessagesValidateFormID(t *testing.T) {
	cases := []struct {
		name string
		msg  interface{ Validate() error }
		code string
	}{
		{name: "submit missing", msg: formscmd.SubmitFormCommand{}, code: "catalog.forms.submit.form_id_required"},
		{name: "submit malformed", msg: formscmd.SubmitFormCommand{FormID: "abc"}, code: "catalog.forms.submit.form_id_invalid"},
		{name: "upload missing", msg: formscmd.UploadPendingCommand{FormID: "  "}, code: "catalog.forms.upload_pending.form_id_required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			var errs validation.Errors
			if !errors.As(err, &errs) {
				t.Fatalf("expected validation.Errors, got %v", err)
			}
			verr, ok := errs["form_id"].(validation.Error)
			if !ok || verr.Code() != tc.code {
				t.Fatalf("expected code %s, got %v", tc.code, errs["form_id"])
			}
		})
	}

	ok := formscmd.SubmitFormCommand{FormID: "0b5f3c0e-4d3a-4c55-9a57-1f2e5d8c7b10"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
}

func TestSubmitHandlerSubmitsForm(t *testing.T) {
	form := newCategoryForm(t)
	api := &stubAPI{}
	var saved entities.Entity
	handler := formscmd.NewSubmitHandler(formscmd.Config{
		Store: memoryStore{form.ID(): form},
		API:   api,
		OnSaved: func(_ context.Context, _ *forms.Form, e entities.Entity) {
			saved = e
		},
	})

	if err := handler.Execute(context.Background(), formscmd.SubmitFormCommand{FormID: form.ID()}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if api.submits != 1 || saved.ID != savedID {
		t.Fatalf("expected one submit with saved callback, got %d / %+v", api.submits, saved)
	}
	if form.Creating() {
		t.Fatal("expected form to switch to update mode")
	}
}

func TestSubmitHandlerUnknownForm(t *testing.T) {
	handler := formscmd.NewSubmitHandler(formscmd.Config{Store: memoryStore{}, API: &stubAPI{}})
	err := handler.Execute(context.Background(), formscmd.SubmitFormCommand{FormID: "0b5f3c0e-4d3a-4c55-9a57-1f2e5d8c7b10"})
	if !errors.Is(err, formscmd.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestSubmitHandlerKeepsValidationCategory(t *testing.T) {
	form, err := forms.New(entities.KindCategory)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	api := &stubAPI{}
	handler := formscmd.NewSubmitHandler(formscmd.Config{Store: memoryStore{form.ID(): form}, API: api})

	err = handler.Execute(context.Background(), formscmd.SubmitFormCommand{FormID: form.ID()})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if api.submits != 0 {
		t.Fatal("expected invalid form to stay off the wire")
	}
}

func TestUploadPendingHandlerPromotesFiles(t *testing.T) {
	form := newCategoryForm(t)
	att, err := form.Attachment("image")
	if err != nil {
		t.Fatalf("attachment: %v", err)
	}
	if err := att.SelectFile(media.NewFile("cover.png", "image/png", []byte("png"))); err != nil {
		t.Fatalf("select file: %v", err)
	}
	api := &stubAPI{}
	handler := formscmd.NewUploadPendingHandler(formscmd.Config{Store: memoryStore{form.ID(): form}, API: api})

	if err := handler.Execute(context.Background(), formscmd.UploadPendingCommand{FormID: form.ID()}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if api.uploads != 1 {
		t.Fatalf("expected one upload, got %d", api.uploads)
	}
	if url, ok := att.Slot().URL(); !ok || url != "https://cdn.local/cover.png" {
		t.Fatalf("expected promoted slot, got %+v", att.Slot())
	}
}

func TestRegisterDispatchesFormCommands(t *testing.T) {
	form := newCategoryForm(t)
	api := &stubAPI{}
	unsubscribe := formscmd.Register(formscmd.Config{Store: memoryStore{form.ID(): form}, API: api})
	t.Cleanup(unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), formscmd.SubmitFormCommand{FormID: form.ID()}); err != nil {
		t.Fatalf("dispatch submit: %v", err)
	}
	if api.submits != 1 {
		t.Fatalf("expected dispatcher to reach the submit handler, got %d", api.submits)
	}

	api.fail = errors.New("offline")
	if err := dispatcher.Dispatch(context.Background(), formscmd.SubmitFormCommand{FormID: form.ID()}); err == nil {
		t.Fatal("expected transport failure to surface through the dispatcher")
	}
}
