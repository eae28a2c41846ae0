package forms

import (
	"context"

	"github.com/goliatone/go-catalog/internal/entities"
	"github.com/goliatone/go-catalog/internal/media"
)

// Submit validates, encodes and sends the form. Validation and conflict
// errors stop before the api is called. A failed api call leaves the
// draft and every slot untouched, pending files included, so the caller
// can retry. On success the form is rebased on the returned entity.
func (f *Form) Submit(ctx context.Context, api ContentAPI) (entities.Entity, error) {
	snaps, err := f.Snapshots()
	if err != nil {
		return entities.Entity{}, wrapUnsettled(err)
	}
	if errs := f.validate(snaps); len(errs) > 0 {
		f.logger.Debug("forms.submit.blocked", "errors", len(errs), "conflict", errs.HasConflict())
		return entities.Entity{}, wrapFieldErrors(errs)
	}
	payload, err := f.build(snaps)
	if err != nil {
		f.logger.Error("forms.submit.encode_failed", "error", err)
		return entities.Entity{}, err
	}

	id := ""
	if !f.creating {
		id = f.original.ID
	}
	saved, err := api.SubmitEntity(ctx, f.spec.Kind, id, payload)
	if err != nil {
		f.logger.Warn("forms.submit.transport_failed", "encoding", string(payload.Encoding), "error", err)
		return entities.Entity{}, wrapTransport(&TransportError{Op: "submit", Kind: f.spec.Kind, ID: id, Err: err})
	}

	if saved.Kind == "" {
		saved.Kind = f.spec.Kind
	}
	if saved.ID == "" {
		saved.ID = id
	}
	f.creating = false
	f.rebase(saved)
	f.logger.Info("forms.submit.completed", "encoding", string(payload.Encoding), "bytes", len(payload.Body), "saved_id", saved.ID)
	return saved.Clone(), nil
}

// UploadPending uploads every pending file through the api and swaps each
// one for its stored URL, so the next Submit can go out as JSON. Uploads
// that completed before a failure stay applied; the failing file and the
// ones after it stay pending.
func (f *Form) UploadPending(ctx context.Context, api ContentAPI) (int, error) {
	uploaded := 0
	for _, binding := range f.spec.Bindings {
		var (
			pending []media.Slot
			promote func(media.Slot, string) (bool, error)
		)
		if coll, ok := f.collections[binding.Slot]; ok {
			for _, item := range coll.Items() {
				if item.IsPending() {
					pending = append(pending, item)
				}
			}
			promote = coll.Promote
		} else {
			att := f.attachments[binding.Slot]
			if slot := att.Slot(); slot.IsPending() {
				pending = append(pending, slot)
			}
			promote = att.Promote
		}

		for _, slot := range pending {
			file, _ := slot.File()
			if err := ctx.Err(); err != nil {
				return uploaded, err
			}
			result, err := api.UploadMedia(ctx, file)
			if err != nil {
				f.logger.Warn("forms.upload.failed", "slot", binding.Slot, "file", file.Name, "error", err)
				return uploaded, wrapTransport(&TransportError{Op: "upload", Kind: f.spec.Kind, ID: f.original.ID, Err: err})
			}
			applied, err := promote(slot, result.URL)
			if err != nil {
				return uploaded, err
			}
			if applied {
				uploaded++
			}
		}
	}
	if uploaded > 0 {
		f.logger.Debug("forms.upload.completed", "files", uploaded)
	}
	return uploaded, nil
}
