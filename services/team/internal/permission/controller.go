package permission

import (
	"github.com/esgdesk/pkg/dal"
	"github.com/esgdesk/pkg/response"
	"github.com/esgdesk/pkg/router"
	"github.com/gofiber/fiber/v2"
)

// Controller 子用户权限控制器
type Controller struct {
	svc *Service
}

// NewController 创建权限控制器
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
		{Method: fiber.MethodGet, Path: "/:id/permissions", Handler: c.get, Middlewares: auth},
		{Method: fiber.MethodPut, Path: "/:id/permissions", Handler: c.save, Middlewares: auth},
		{Method: fiber.MethodPost, Path: "/:id/permissions/toggle", Handler: c.toggle, Middlewares: auth},
		{Method: fiber.MethodPost, Path: "/:id/permissions/preview", Handler: c.preview, Middlewares: auth},
		{Method: fiber.MethodGet, Path: "/:id/permissions/urls", Handler: c.urls, Middlewares: auth},
	}
}

func (c *Controller) get(ctx *fiber.Ctx) error {
	userID, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.FromError(ctx, err)
	}
	state, err := c.svc.Load(ctx.UserContext(), userID)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, StateResponse{UserID: userID, State: state, Granted: state.Granted()})
}

func (c *Controller) toggle(ctx *fiber.Ctx) error {
	userID, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.FromError(ctx, err)
	}
	var req ToggleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	state, err := c.svc.Toggle(ctx.UserContext(), userID, &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, StateResponse{UserID: userID, State: state, Granted: state.Granted()})
}

func (c *Controller) save(ctx *fiber.Ctx) error {
	userID, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.FromError(ctx, err)
	}
	var req SaveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	state, err := c.svc.Save(ctx.UserContext(), userID, req.State)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.SuccessWithMessage(ctx, "权限已保存", StateResponse{UserID: userID, State: state, Granted: state.Granted()})
}

func (c *Controller) preview(ctx *fiber.Ctx) error {
	userID, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.FromError(ctx, err)
	}
	var req PreviewRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return response.ValidateError(ctx, err.Error())
		}
	}
	menu, err := c.svc.Preview(ctx.UserContext(), userID, req.State)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, PreviewResponse{UserID: userID, Menu: menu})
}

func (c *Controller) urls(ctx *fiber.Ctx) error {
	userID, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.FromError(ctx, err)
	}
	urls, err := c.svc.AccessibleURLs(ctx.UserContext(), userID)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, urls)
}
