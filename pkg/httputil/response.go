package httputil

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/jwalitptl/push-api/pkg/errors"
	"github.com/jwalitptl/push-api/pkg/validator"
)

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// StatusFor maps an error to an HTTP status. Errors that carry no client
// meaning (store failures, unknown errors) get the endpoint's fallback.
func StatusFor(err error, fallback int) int {
	code, ok := errors.CodeOf(err)
	if !ok {
		return fallback
	}
	switch code {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrValidation:
		return http.StatusBadRequest
	case errors.ErrConflict, errors.ErrInvalidState:
		return http.StatusConflict
	case errors.ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return fallback
	}
}

// RespondWithError sends an error response. Client-facing kinds render only
// their message; the wrapped cause is kept for the error log.
func RespondWithError(c *gin.Context, err error, fallback int) {
	status := StatusFor(err, fallback)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorBody(err))
}

func errorBody(err error) ErrorBody {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		return ErrorBody{Error: err.Error()}
	}

	body := ErrorBody{Error: err.Error(), Code: appErr.Code.String()}
	switch appErr.Code {
	case errors.ErrValidation, errors.ErrNotFound, errors.ErrConflict,
		errors.ErrInvalidState, errors.ErrUnauthorized:
		body.Error = appErr.Message
	}
	return body
}

// BindJSON decodes the request body into obj. An empty body leaves obj at
// its zero value; binding failures come back as validation errors.
func BindJSON(c *gin.Context, obj interface{}) error {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return nil
	}
	if stderrors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
		if err == nil {
			return nil
		}
	}
	return validator.BindingError(err)
}
