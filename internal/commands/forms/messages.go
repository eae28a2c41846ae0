package formscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	submitFormMessageType    = "catalog.forms.submit"
	uploadPendingMessageType = "catalog.forms.upload_pending"
)

// SubmitFormCommand validates, encodes and sends an open form.
type SubmitFormCommand struct {
	FormID string `json:"form_id"`
}

// Type implements command.Message.
func (SubmitFormCommand) Type() string { return submitFormMessageType }

// FormRef implements commands.FormScoped.
func (m SubmitFormCommand) FormRef() string { return strings.TrimSpace(m.FormID) }

// Validate ensures the command references a form session.
func (m SubmitFormCommand) Validate() error {
	return validateFormID(m.FormID, submitFormMessageType)
}

// UploadPendingCommand uploads the pending files of an open form.
type UploadPendingCommand struct {
	FormID string `json:"form_id"`
}

// Type implements command.Message.
func (UploadPendingCommand) Type() string { return uploadPendingMessageType }

// FormRef implements commands.FormScoped.
func (m UploadPendingCommand) FormRef() string { return strings.TrimSpace(m.FormID) }

// Validate ensures the command references a form session.
func (m UploadPendingCommand) Validate() error {
	return validateFormID(m.FormID, uploadPendingMessageType)
}

func validateFormID(id, prefix string) error {
	errs := validation.Errors{}
	switch trimmed := strings.TrimSpace(id); {
	case trimmed == "":
		errs["form_id"] = validation.NewError(prefix+".form_id_required", "form_id is required")
	default:
		if _, err := uuid.Parse(trimmed); err != nil {
			errs["form_id"] = validation.NewError(prefix+".form_id_invalid", "form_id must be a uuid")
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
