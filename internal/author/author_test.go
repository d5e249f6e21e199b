package author

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/book"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Author{Name: "Ursula K. Le Guin"}))

	var verr *book.ValidationError
	require.ErrorAs(t, Validate(Author{Name: " "}), &verr)
	assert.Equal(t, []string{"This field may not be blank."}, verr.Fields["name"])

	require.ErrorAs(t, Validate(Author{Name: strings.Repeat("n", MaxNameLength+1)}), &verr)
	assert.Contains(t, verr.Fields, "name")
}
