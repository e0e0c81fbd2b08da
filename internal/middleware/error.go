package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/push-api/pkg/errors"
)

// ErrorHandler logs the errors handlers attached with c.Error. Responses
// are written by the handlers themselves.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, e := range c.Errors {
			var event *zerolog.Event
			code, ok := errors.CodeOf(e.Err)
			if ok && code != errors.ErrInternal {
				event = log.Debug()
			} else {
				event = log.Error()
			}
			event.
				Err(e.Err).
				Str("request_id", c.GetString(ContextRequestID)).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Int("status", c.Writer.Status()).
				Msg("Request error")
		}
	}
}
