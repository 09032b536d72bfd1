package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEchoContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromEchoReturnsAttachedLogger(t *testing.T) {
	c := newEchoContext()

	l := zap.NewNop().With(zap.String("request_id", "abc"))
	Attach(c, l)

	assert.Same(t, l, FromEcho(c))
}

func TestFromEchoFallsBackWhenNothingAttached(t *testing.T) {
	c := newEchoContext()

	got := FromEcho(c)
	require.NotNil(t, got)
	// Usable without any middleware having run.
	assert.NotPanics(t, func() { got.Debug("noop") })
}
