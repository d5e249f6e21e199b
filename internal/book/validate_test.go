package book

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(year int) time.Time {
	return time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
}

func TestValidatePublicationYear(t *testing.T) {
	tests := []struct {
		year    int
		now     time.Time
		wantErr bool
	}{
		{year: 2024, now: at(2024), wantErr: false},
		{year: 2025, now: at(2024), wantErr: true},
		{year: 1850, now: at(2024), wantErr: false},
		{year: 0, now: at(2024), wantErr: false},
		{year: -300, now: at(2024), wantErr: false},
		// accepted once the calendar year rolls over
		{year: 2025, now: at(2025), wantErr: false},
	}

	for _, tt := range tests {
		err := ValidatePublicationYear(tt.year, tt.now)
		if tt.wantErr {
			require.Error(t, err, "year %d", tt.year)
			assert.Equal(t, MsgFutureYear, err.Error())
		} else {
			assert.NoError(t, err, "year %d", tt.year)
		}
	}
}

func TestValidate(t *testing.T) {
	now := at(2024)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(Book{Title: "Dune", PublicationYear: 1965, AuthorID: 1}, now))
	})

	t.Run("future year keyed by field", func(t *testing.T) {
		err := Validate(Book{Title: "Later", PublicationYear: 2030, AuthorID: 1}, now)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, map[string][]string{"publication_year": {MsgFutureYear}}, verr.Fields)
	})

	t.Run("year below the storable range", func(t *testing.T) {
		err := Validate(Book{Title: "Old", PublicationYear: math.MinInt32 - 1, AuthorID: 1}, now)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"Ensure this value is greater than or equal to -2147483648."}, verr.Fields["publication_year"])

		assert.NoError(t, Validate(Book{Title: "Old", PublicationYear: math.MinInt32, AuthorID: 1}, now))
	})

	t.Run("blank and long titles", func(t *testing.T) {
		err := Validate(Book{Title: "  ", PublicationYear: 2000}, now)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"This field may not be blank."}, verr.Fields["title"])

		err = Validate(Book{Title: strings.Repeat("x", MaxTitleLength+1), PublicationYear: 2000}, now)
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"Ensure this field has no more than 200 characters."}, verr.Fields["title"])

		assert.NoError(t, Validate(Book{Title: strings.Repeat("é", MaxTitleLength), PublicationYear: 2000}, now))
	})
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: map[string][]string{"b": {"two"}, "a": {"one"}}}
	assert.Equal(t, "validation failed: a: one; b: two", err.Error())
}
