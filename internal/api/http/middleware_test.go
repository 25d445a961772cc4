package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/todo-service/internal/observability"
	apperrors "github.com/spec-kit/todo-service/pkg/util"
)

func TestErrorMiddleware_LogsUnwritableErrorBody(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	app := fiber.New()
	RegisterMiddlewares(app, MiddlewareConfig{Logger: zap.New(core), Metrics: observability.NewMetrics()})
	app.Get("/broken", func(c *fiber.Ctx) error {
		// channels cannot be JSON encoded
		return apperrors.NewDomainError("BROKEN", "broken details", fiber.StatusBadRequest, map[string]any{
			"ch": make(chan int),
		})
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/broken", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	entries := logs.FilterMessage("write error response").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/broken", entries[0].ContextMap()["path"])
}

func TestErrorMiddleware_RecoversPanics(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	app := fiber.New()
	RegisterMiddlewares(app, MiddlewareConfig{Logger: zap.New(core)})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, logs.FilterMessage("panic recovered").All())
}
