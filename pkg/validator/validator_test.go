package validator

import (
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Slug     string `json:"slug" validate:"required,slug"`
	Year     int    `json:"year" validate:"required,notfuture"`
	Role     string `json:"role" validate:"omitempty,role"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestCustomTags(t *testing.T) {
	v := newValidator(t)

	ok := sample{Username: "jane.doe+1@x", Slug: "sci-fi_2", Year: 1965, Role: "moderator"}
	assert.NoError(t, v.Struct(ok))

	tests := []struct {
		name  string
		input sample
		want  string
	}{
		{"bad username", sample{Username: "jane doe", Slug: "a", Year: 1965}, "username may contain only"},
		{"bad slug", sample{Username: "jane", Slug: "sci fi", Year: 1965}, "slug may contain only"},
		{"future year", sample{Username: "jane", Slug: "a", Year: time.Now().Year() + 1}, "year cannot be in the future"},
		{"bad role", sample{Username: "jane", Slug: "a", Year: 1965, Role: "root"}, "role must be one of"},
		{"missing username", sample{Slug: "a", Year: 1965}, "username is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			require.Error(t, err)
			assert.Contains(t, FormatValidationError(err), tt.want)
		})
	}
}

func TestCurrentYearIsAllowed(t *testing.T) {
	v := newValidator(t)
	assert.NoError(t, v.Struct(sample{Username: "a", Slug: "a", Year: time.Now().Year()}))
}

func TestFormatValidationErrorPassesThroughOtherErrors(t *testing.T) {
	assert.Equal(t, "unexpected EOF", FormatValidationError(errors.New("unexpected EOF")))
}
