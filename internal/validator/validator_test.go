package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingQuery struct {
	Page     string `query:"page" validate:"omitempty,integer"`
	Category string `query:"category" validate:"max=10"`
	SortBy   string `query:"sortBy" validate:"omitempty,oneof=recent popular"`
}

type searchQuery struct {
	Query string `query:"query" validate:"required,notblank,max=20"`
}

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"omitempty,min=1,max=5"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&listingQuery{Page: "-3", Category: "ia", SortBy: "recent"}))
	assert.NoError(t, v.Validate(&listingQuery{}))
	assert.NoError(t, v.Validate(&listingQuery{Page: "99999999999999999999999"}))
	assert.NoError(t, v.Validate(&signup{Email: "ana@example.com"}))
}

func TestValidate_OneMessagePerViolation(t *testing.T) {
	v := New()

	err := v.Validate(&listingQuery{Page: "abc", Category: "a-very-long-category", SortBy: "random"})

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 3)

	byField := map[string]ValidationError{}
	for _, e := range errs {
		byField[e.Field] = e
	}
	assert.Equal(t, "page must be an integer", byField["page"].Message)
	assert.Equal(t, "category must be at most 10 characters", byField["category"].Message)
	assert.Equal(t, "sortBy must be one of: recent popular", byField["sortBy"].Message)
	assert.Contains(t, err.Error(), "; ")
}

func TestValidate_JSONFields(t *testing.T) {
	v := New()

	err := v.Validate(&signup{Email: "not-an-email", Name: "Alexandra"})

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "email must be a valid email address", errs[0].Message)
	assert.Equal(t, "name", errs[1].Field)
	assert.Equal(t, "max", errs[1].Tag)
}

func TestValidate_Required(t *testing.T) {
	err := New().Validate(&signup{})

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "email is required", errs[0].Message)
}

func TestValidate_NotBlank(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&searchQuery{Query: " rag "}))

	for _, q := range []string{" ", "   ", "\t\n"} {
		err := v.Validate(&searchQuery{Query: q})

		var errs ValidationErrors
		require.ErrorAs(t, err, &errs, "%q", q)
		assert.Equal(t, "notblank", errs[0].Tag)
		assert.Equal(t, "query must not be blank", errs[0].Message)
	}
}
