package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/push-api/pkg/httputil"
)

// Recovery turns a handler panic into a 500 with the standard error body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}

			log.Error().
				Str("panic", fmt.Sprint(p)).
				Bytes("stack", debug.Stack()).
				Str("request_id", c.GetString(ContextRequestID)).
				Str("route", c.FullPath()).
				Msg("Request panic recovered")

			c.AbortWithStatusJSON(http.StatusInternalServerError, httputil.ErrorBody{
				Error: "internal server error",
				Code:  "internal",
			})
		}()
		c.Next()
	}
}
