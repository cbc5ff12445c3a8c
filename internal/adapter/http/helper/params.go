package helper

import (
	"errors"

	. "todoref/internal/adapter/http/validation"
	"todoref/internal/core/domain"

	"github.com/gin-gonic/gin"
)

// BindAndValidate decodes the JSON body into T and runs the struct
// validator. On failure the error response has already been written.
func BindAndValidate[T any](c *gin.Context) (T, bool) {
	var params T

	if err := c.ShouldBindJSON(&params); err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			SendBadRequestError(c, "status", err.Error())
			return params, false
		}

		SendBadRequestError(c, "request", "Invalid request body")
		return params, false
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return params, false
	}

	return params, true
}
