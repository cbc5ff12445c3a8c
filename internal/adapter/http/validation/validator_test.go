package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"todoref/internal/core/domain"
	"todoref/internal/core/model/request"
)

func TestValidator_NotBlank(t *testing.T) {
	err := Validator.Struct(request.TodoRequest{Title: "   ", Description: "ok"})

	errs := FormatValidationErrors(err)

	assert.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].Field)
	assert.Equal(t, "title must not be blank", errs[0].Message)
}

func TestValidator_Max(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}

	err := Validator.Struct(request.TodoRequest{Title: string(long), Description: "ok"})

	errs := FormatValidationErrors(err)

	assert.Len(t, errs, 1)
	assert.Equal(t, "title must be at most 255 characters", errs[0].Message)
}

func TestValidator_PatchSkipsAbsentFields(t *testing.T) {
	assert.NoError(t, Validator.Struct(request.TodoPatchRequest{}))

	err := Validator.Struct(request.TodoPatchRequest{Description: domain.StringPtr("")})

	errs := FormatValidationErrors(err)
	assert.Len(t, errs, 1)
	assert.Equal(t, "description", errs[0].Field)
}

func TestFormatValidationErrors_DomainError(t *testing.T) {
	errs := FormatValidationErrors(&domain.ValidationError{Fields: []string{"title", "description"}})

	assert.Len(t, errs, 2)
	assert.Equal(t, "description", errs[1].Field)
}

func TestFormatValidationErrors_Unrelated(t *testing.T) {
	assert.Empty(t, FormatValidationErrors(domain.ErrTodoNotFound))
}
