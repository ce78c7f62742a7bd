package validation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// BindAndValidate decodes the JSON body into out and runs struct validation.
// On failure it writes the 400 response itself and returns a non-nil error so
// the handler can return immediately.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid_request_body",
			"msg":   err.Error(),
		})
		return err
	}

	err := v.Struct(out)
	if err == nil {
		return nil
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "validation_failed",
		"fields": fieldErrors(err),
	})
	return err
}

// fieldErrors flattens validator output into field -> reason, keyed by the
// struct namespace so nested selection entries stay addressable.
func fieldErrors(err error) map[string]string {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string]string{"error": err.Error()}
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.StructNamespace()] = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return out
}
