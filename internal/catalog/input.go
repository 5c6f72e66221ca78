package catalog

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Column sizes of the catalog tables.
const (
	MaxTitleNameLength  = 200
	MaxAuthorNameLength = 100
	MaxGenreNameLength  = 50
)

const msgRequired = "this field is required"

// TitleInput is a title submission, independent of how a transport
// decoded it.
type TitleInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Author      string `json:"author"`
	GenreIDs    []uint `json:"genre_ids"`
}

// Normalize strips surrounding whitespace from the text fields. Author
// matching stays exact after that: case and inner spacing are kept.
func (in TitleInput) Normalize() TitleInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Author = strings.TrimSpace(in.Author)
	return in
}

// Validate checks required fields and column sizes.
func (in TitleInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error(msgRequired),
			validation.RuneLength(0, MaxTitleNameLength).Error("ensure this value has at most 200 characters"),
		),
		validation.Field(&in.Author,
			validation.Required.Error(msgRequired),
			validation.RuneLength(0, MaxAuthorNameLength).Error("ensure this value has at most 100 characters"),
		),
	)
	return toValidationError(err)
}

// toValidationError converts ozzo-validation errors into a ValidationError.
// Internal validator failures are passed through unchanged.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for field, fieldErr := range fieldErrs {
		out.Fields[field] = fieldErr.Error()
	}
	return out
}

// TextValue accepts a decoded boundary value only when it is a string.
func TextValue(field string, v any) (string, error) {
	switch value := v.(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	default:
		return "", NewValidationError(field, "must be a text value")
	}
}

// ValidateGenreName checks a name for a new genre.
func ValidateGenreName(name string) error {
	err := validation.Validate(strings.TrimSpace(name),
		validation.Required.Error(msgRequired),
		validation.RuneLength(0, MaxGenreNameLength).Error("ensure this value has at most 50 characters"),
	)
	if err != nil {
		return NewValidationError("name", err.Error())
	}
	return nil
}
