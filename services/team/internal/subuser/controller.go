package subuser

import (
	"github.com/esgdesk/pkg/response"
	"github.com/esgdesk/pkg/router"
	"github.com/gofiber/fiber/v2"
)

// Controller 子用户控制器
type Controller struct {
	svc *Service
}

// NewController 创建子用户控制器
func NewController(svc *Service) *Controller {
	return &Controller{svc: svc}
}

// Prefix 路由前缀
func (c *Controller) Prefix() string {
	return "/subuser"
}

// Routes 路由配置
func (c *Controller) Routes(m map[string]fiber.Handler) []router.Route {
	auth := router.Use(m, "jwt")
	return []router.Route{
		{Method: fiber.MethodGet, Path: "", Handler: c.list, Middlewares: auth},
		{Method: fiber.MethodPost, Path: "/activate", Handler: c.activate, Middlewares: auth},
		{Method: fiber.MethodGet, Path: "/urlList", Handler: c.urlList, Middlewares: auth},
	}
}

func (c *Controller) list(ctx *fiber.Ctx) error {
	var q ListQuery
	if err := ctx.QueryParser(&q); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	result, err := c.svc.List(ctx.UserContext(), &q)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.SuccessPage(ctx, result.Items, result.Total, result.Page, result.PageSize)
}

func (c *Controller) activate(ctx *fiber.Ctx) error {
	var req ActivateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	user, err := c.svc.Activate(ctx.UserContext(), &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, user)
}

func (c *Controller) urlList(ctx *fiber.Ctx) error {
	return response.Success(ctx, c.svc.URLList())
}
