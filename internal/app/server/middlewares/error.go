package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"freshmart/internal/app/pkg/errorx"
	"freshmart/internal/app/pkg/ginx"
	"freshmart/internal/app/pkg/logger"
)

// ErrorHandler recovers panics into a 500 envelope and logs the errors handlers
// attached with c.Error. Server-side failures log at error level, client errors at warn.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf(c.Request.Context(), "panic recovered: %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				_ = c.Error(fmt.Errorf("panic: %v", r))
				if !c.Writer.Written() {
					ginx.InternalError(c, "Server error")
				}
				c.Abort()
			}
		}()

		c.Next()

		for _, e := range c.Errors {
			if errorx.HTTPStatus(e.Err) >= http.StatusInternalServerError {
				log.Errorf(c.Request.Context(), "%s %s failed: %v", c.Request.Method, c.FullPath(), e.Err)
			} else {
				log.Warnf(c.Request.Context(), "%s %s rejected: %v", c.Request.Method, c.FullPath(), e.Err)
			}
		}
	}
}
