package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type testMessage struct{}

func (testMessage) Type() string { return "catalog.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "catalog.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestHandlerKeepsExistingCategory(t *testing.T) {
	tagged := goerrors.Wrap(errors.New("conflict"), goerrors.CategoryValidation, "form has publish conflicts")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return tagged
	})

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category to survive, got %v", err)
	}
}

func TestHandlerReportsTelemetry(t *testing.T) {
	var infos []TelemetryInfo
	record := func(_ context.Context, _ testMessage, info TelemetryInfo) {
		infos = append(infos, info)
	}
	fail := true
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		if fail {
			return errors.New("boom")
		}
		return nil
	}, WithTelemetry[testMessage](record), WithOperation[testMessage]("forms.submit"))

	_ = h.Execute(context.Background(), testMessage{})
	fail = false
	_ = h.Execute(context.Background(), testMessage{})

	if len(infos) != 2 {
		t.Fatalf("expected two telemetry entries, got %d", len(infos))
	}
	if infos[0].Status != TelemetryStatusFailed || infos[0].Error == nil {
		t.Fatalf("expected failed entry, got %+v", infos[0])
	}
	if infos[1].Status != TelemetryStatusSuccess || infos[1].Error != nil {
		t.Fatalf("expected success entry, got %+v", infos[1])
	}
	if infos[1].Command != "catalog.test.message" || infos[1].Operation != "forms.submit" {
		t.Fatalf("unexpected identity %+v", infos[1])
	}
	if infos[1].Fields["operation"] != "forms.submit" {
		t.Fatalf("expected operation field, got %v", infos[1].Fields)
	}
}

func TestHandlerSkipsTelemetryOnValidationFailure(t *testing.T) {
	calls := 0
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		return nil
	}, WithTelemetry[invalidMessage](func(context.Context, invalidMessage, TelemetryInfo) { calls++ }))

	_ = h.Execute(context.Background(), invalidMessage{})
	if calls != 0 {
		t.Fatalf("expected no telemetry for invalid messages, got %d", calls)
	}
}

type scopedMessage struct{ id string }

func (scopedMessage) Type() string { return "catalog.test.scoped" }

func (scopedMessage) Validate() error { return nil }

func (m scopedMessage) FormRef() string { return m.id }

func TestHandlerTagsFormScopedMessages(t *testing.T) {
	var info TelemetryInfo
	h := NewHandler[scopedMessage](func(context.Context, scopedMessage) error {
		return nil
	}, WithTelemetry[scopedMessage](func(_ context.Context, _ scopedMessage, got TelemetryInfo) { info = got }))

	if err := h.Execute(context.Background(), scopedMessage{id: "form-7"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if info.Fields["form_id"] != "form-7" {
		t.Fatalf("expected form_id field, got %v", info.Fields)
	}

	_ = h.Execute(context.Background(), scopedMessage{})
	if _, ok := info.Fields["form_id"]; ok {
		t.Fatalf("expected blank form ref to be skipped, got %v", info.Fields)
	}
}
