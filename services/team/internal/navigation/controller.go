package navigation

import (
	"github.com/esgdesk/pkg/response"
	"github.com/esgdesk/pkg/router"
	"github.com/gofiber/fiber/v2"
)

// Controller 导航目录控制器
type Controller struct {
	catalog *Catalog
}

// NewController 创建导航目录控制器
func NewController(catalog *Catalog) *Controller {
	return &Controller{catalog: catalog}
}

func (c *Controller) Prefix() string {
	return "/navigation"
}

func (c *Controller) Routes(m map[string]fiber.Handler) []router.Route {
	auth := router.Use(m, "jwt")
	return []router.Route{
		{Method: fiber.MethodGet, Path: "/structure", Handler: c.structure, Middlewares: auth},
		{Method: fiber.MethodGet, Path: "/flat", Handler: c.flat, Middlewares: auth},
	}
}

func (c *Controller) structure(ctx *fiber.Ctx) error {
	return response.Success(ctx, c.catalog.Structure())
}

func (c *Controller) flat(ctx *fiber.Ctx) error {
	return response.Success(ctx, c.catalog.Flat())
}
