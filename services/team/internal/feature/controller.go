package feature

import (
	"github.com/esgdesk/pkg/response"
	"github.com/esgdesk/pkg/router"
	"github.com/gofiber/fiber/v2"
)

// SetRequest 设置功能开关请求
type SetRequest struct {
	Features map[string]bool `json:"features"`
}

// Controller 功能开关控制器
type Controller struct {
	svc *Service
}

// NewController 创建功能开关控制器
func NewController(svc *Service) *Controller {
	return &Controller{svc: svc}
}

func (c *Controller) Prefix() string {
	return "/auth/feature-access"
}

func (c *Controller) Routes(m map[string]fiber.Handler) []router.Route {
	auth := router.Use(m, "jwt")
	return []router.Route{
		{Method: fiber.MethodGet, Path: "", Handler: c.list, Middlewares: auth},
		{Method: fiber.MethodPost, Path: "", Handler: c.set, Middlewares: auth},
	}
}

func (c *Controller) list(ctx *fiber.Ctx) error {
	features, err := c.svc.List(ctx.UserContext())
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, features)
}

func (c *Controller) set(ctx *fiber.Ctx) error {
	var req SetRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	features, err := c.svc.Set(ctx.UserContext(), req.Features)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, features)
}
