package submission

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/goliatone/go-catalog/internal/locale"
)

// FieldType tags the value carried by a Field.
type FieldType uint8

const (
	FieldString FieldType = iota
	FieldLocalized
	FieldBool
	FieldNumber
	FieldArray
)

func (t FieldType) String() string {
	switch t {
	case FieldLocalized:
		return "localized"
	case FieldBool:
		return "bool"
	case FieldNumber:
		return "number"
	case FieldArray:
		return "array"
	default:
		return "string"
	}
}

// Field is one scalar or structured entry of an outbound body. Build
// consumes fields in the order they are declared.
type Field struct {
	Name string
	Type FieldType

	str       string
	localized locale.Text
	boolean   bool
	number    string
	array     any

	omitEmpty bool
}

// String declares a plain string field.
func String(name, value string) Field {
	return Field{Name: name, Type: FieldString, str: value}
}

// OptionalString declares a string field skipped when value is "".
func OptionalString(name, value string) Field {
	return Field{Name: name, Type: FieldString, str: value, omitEmpty: true}
}

// Localized declares a per-language text field.
func Localized(name string, value locale.Text) Field {
	return Field{Name: name, Type: FieldLocalized, localized: value.Clone()}
}

// Bool declares a boolean field.
func Bool(name string, value bool) Field {
	return Field{Name: name, Type: FieldBool, boolean: value}
}

// Int declares an integer field.
func Int(name string, value int64) Field {
	return Field{Name: name, Type: FieldNumber, number: strconv.FormatInt(value, 10)}
}

// Float declares a decimal field.
func Float(name string, value float64) Field {
	return Field{Name: name, Type: FieldNumber, number: strconv.FormatFloat(value, 'f', -1, 64)}
}

// Array declares a JSON array field. value must marshal to a JSON array;
// a nil slice encodes as [].
func Array(name string, value any) Field {
	return Field{Name: name, Type: FieldArray, array: value}
}

// skip reports whether the field contributes nothing.
func (f Field) skip() bool {
	return f.omitEmpty && f.Type == FieldString && f.str == ""
}

// jsonValue renders the native JSON value.
func (f Field) jsonValue() ([]byte, error) {
	switch f.Type {
	case FieldLocalized:
		return f.localized.MarshalJSON()
	case FieldBool:
		return strconv.AppendBool(nil, f.boolean), nil
	case FieldNumber:
		if f.number == "" {
			return []byte("0"), nil
		}
		return []byte(f.number), nil
	case FieldArray:
		return marshalArray(f.Name, f.array)
	default:
		return json.Marshal(f.str)
	}
}

// formValue renders the flat string used as a multipart text part.
func (f Field) formValue() (string, error) {
	switch f.Type {
	case FieldString:
		return f.str, nil
	case FieldBool:
		return strconv.FormatBool(f.boolean), nil
	case FieldNumber:
		if f.number == "" {
			return "0", nil
		}
		return f.number, nil
	default:
		raw, err := f.jsonValue()
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}

func marshalArray(name string, value any) ([]byte, error) {
	if value == nil {
		return []byte("[]"), nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("submission: field %s: %w", name, err)
	}
	if string(raw) == "null" {
		return []byte("[]"), nil
	}
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: field %s", ErrNotArray, name)
	}
	return raw, nil
}
