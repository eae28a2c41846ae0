package entities

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// ValidObjectID reports whether id is a 24 character hex backend id.
func ValidObjectID(id string) bool {
	return objectIDPattern.MatchString(id)
}

// ObjectID is the ozzo rule for backend ids. Empty values pass; pair it
// with validation.Required where the id is mandatory.
var ObjectID = validation.Match(objectIDPattern).
	ErrorObject(validation.NewError("catalog.id.invalid", "must be a 24 character hex id"))
