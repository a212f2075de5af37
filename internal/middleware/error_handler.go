package middleware

import (
	"net/http"
	"time"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorHandler logs every error attached with c.Error. If the handler wrote no
// response it answers 500; clients never see the underlying error text.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, ginErr := range c.Errors {
			log.Error().
				Err(ginErr.Err).
				Str("request_id", c.GetString(RequestIDKey)).
				Str("route", c.FullPath()).
				Str("method", c.Request.Method).
				Msg("request failed")
		}
		if len(c.Errors) > 0 && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("Internal server error"))
		}
	}
}

// Recovery turns a panic into a 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			log.Error().
				Interface("panic", r).
				Str("request_id", c.GetString(RequestIDKey)).
				Str("route", c.FullPath()).
				Msg("panic recovered")
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("Internal server error"))
		}()
		c.Next()
	}
}

// Logger writes one access log line per request; 5xx responses log at error level.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
