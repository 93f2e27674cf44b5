// Package validate wraps a shared validator instance for request DTOs.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// Struct validates a DTO against its `validate` tags. The returned error
// message is safe to surface to API clients.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, ", "))
}
