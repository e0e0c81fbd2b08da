package validator

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/push-api/pkg/errors"
)

var validate = validator.New()

// ValidEmail reports whether s is a well-formed email address.
func ValidEmail(s string) bool {
	return validate.Var(s, "email") == nil
}

// BindingError turns a gin ShouldBind* failure into a validation error
// with one readable message per field.
func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return errors.Validation(strings.Join(msgs, "; "), err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.Is(err, io.EOF):
		return errors.Validation("request body is required", err)
	case stderrors.As(err, &syntaxErr):
		return errors.Validation("malformed JSON body", err)
	case stderrors.As(err, &typeErr):
		return errors.Validation(fmt.Sprintf("%s must be %s", typeErr.Field, typeErr.Type.String()), err)
	}
	return errors.Validation("invalid request body", err)
}

func fieldMessage(fe validator.FieldError) string {
	field := jsonName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// jsonName lower-cases the first letter so messages match request keys.
func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
