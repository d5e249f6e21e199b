package book

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxTitleLength = 200

	MsgFutureYear = "Publication year cannot be in the future."
	// MinPublicationYear is the smallest year the INTEGER column can hold.
	MinPublicationYear = math.MinInt32
	msgBlank           = "This field may not be blank."
)

// ValidationError maps request fields to their failure messages.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewFieldError builds a ValidationError with a single message.
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// ValidatePublicationYear rejects years after the calendar year of now.
func ValidatePublicationYear(year int, now time.Time) error {
	if year > now.Year() {
		return validation.NewError("validation_publication_year_future", MsgFutureYear)
	}
	return nil
}

// NotBlank is an ozzo rule rejecting whitespace-only strings.
var NotBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_blank", msgBlank)
	}
	return nil
})

// MaxLength is an ozzo rule with a DRF-style message.
func MaxLength(n int) validation.Rule {
	return validation.RuneLength(0, n).
		Error(fmt.Sprintf("Ensure this field has no more than %d characters.", n))
}

// Validate checks a book about to be written.
func Validate(b Book, now time.Time) error {
	err := validation.ValidateStruct(&b,
		validation.Field(&b.Title, NotBlank, MaxLength(MaxTitleLength)),
		validation.Field(&b.PublicationYear,
			validation.Min(MinPublicationYear).
				Error(fmt.Sprintf("Ensure this value is greater than or equal to %d.", MinPublicationYear)),
			validation.By(func(v interface{}) error {
				return ValidatePublicationYear(v.(int), now)
			})),
	)
	return FromOzzo(err)
}

// FromOzzo converts ozzo field errors into a ValidationError and passes any
// other error through.
func FromOzzo(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string][]string, len(errs))}
	for field, ferr := range errs {
		var nested validation.Errors
		if errors.As(ferr, &nested) {
			return err
		}
		out.Fields[field] = append(out.Fields[field], ferr.Error())
	}
	return out
}
