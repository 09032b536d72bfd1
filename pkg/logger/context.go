package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// echoKey is the Echo context key the request-scoped logger lives under.
const echoKey = "logger"

// Attach stores a request-scoped logger on the Echo context so downstream
// handlers pick up its fields (request id etc.) through FromEcho.
func Attach(c echo.Context, l *zap.Logger) {
	c.Set(echoKey, l)
}

// FromEcho returns the request-scoped logger, falling back to the global
// one when no middleware attached any. Never returns nil.
func FromEcho(c echo.Context) *zap.Logger {
	if l, ok := c.Get(echoKey).(*zap.Logger); ok {
		return l
	}
	return GetLogger()
}
