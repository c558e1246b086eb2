package router

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingController struct{}

func (pingController) Prefix() string { return "/ping" }

func (pingController) Routes(m map[string]fiber.Handler) []Route {
	return []Route{
		{Method: "get", Path: "", Handler: func(c *fiber.Ctx) error { return c.SendString("pong") }},
		{Method: "GET", Path: "/secure", Handler: func(c *fiber.Ctx) error { return c.SendString("ok") }, Middlewares: Use(m, "deny", "missing")},
	}
}

func TestRegister(t *testing.T) {
	app := fiber.New()
	deny := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusForbidden) }
	Register(app, map[string]fiber.Handler{"deny": deny}, pingController{})

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/ping/secure", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}
