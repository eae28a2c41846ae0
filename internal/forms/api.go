package forms

import (
	"context"

	"github.com/goliatone/go-catalog/internal/entities"
	"github.com/goliatone/go-catalog/internal/media"
	"github.com/goliatone/go-catalog/internal/submission"
)

// ContentAPI is the backend boundary. Implementations own the HTTP
// client, authentication and timeouts; forms only hand them payloads.
type ContentAPI interface {
	FetchEntity(ctx context.Context, kind entities.Kind, id string) (entities.Entity, error)
	// SubmitEntity creates the entity when id is empty and updates it otherwise.
	SubmitEntity(ctx context.Context, kind entities.Kind, id string, payload submission.Payload) (entities.Entity, error)
	UploadMedia(ctx context.Context, file media.File) (UploadResult, error)
}

// UploadResult is the stored location of an uploaded file.
type UploadResult struct {
	URL string `json:"url"`
}
