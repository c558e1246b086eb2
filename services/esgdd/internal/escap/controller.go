package escap

import (
	"github.com/esgdesk/pkg/dal"
	"github.com/esgdesk/pkg/middleware"
	"github.com/esgdesk/pkg/response"
	"github.com/esgdesk/pkg/router"
	"github.com/gofiber/fiber/v2"
)

// Controller 整改计划控制器
type Controller struct {
	svc *Service
}

// NewController 创建整改计划控制器
func NewController(svc *Service) *Controller {
	return &Controller{svc: svc}
}

func (c *Controller) Prefix() string {
	return "/esgdd/escap"
}

func (c *Controller) Routes(m map[string]fiber.Handler) []router.Route {
	auth := router.Use(m, "jwt", "esgdd")
	return []router.Route{
		{Method: fiber.MethodGet, Path: "/:entityId", Handler: c.get, Middlewares: auth},
		{Method: fiber.MethodPost, Path: "/change-request", Handler: c.changeRequest, Middlewares: auth},
		{Method: fiber.MethodPost, Path: "/accept-plan", Handler: c.accept, Middlewares: auth},
		{Method: fiber.MethodPost, Path: "/update-plan-details", Handler: c.updateDetails, Middlewares: auth},
		{Method: fiber.MethodGet, Path: "/:entityId/items/:itemId/history", Handler: c.history, Middlewares: auth},
	}
}

func (c *Controller) get(ctx *fiber.Ctx) error {
	view, err := c.svc.Get(ctx.UserContext(), ctx.Params("entityId"))
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, view)
}

func (c *Controller) changeRequest(ctx *fiber.Ctx) error {
	var req ChangeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	plan, err := c.svc.RequestChange(ctx.UserContext(), &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.SuccessWithMessage(ctx, "变更意见已提交", plan)
}

func (c *Controller) accept(ctx *fiber.Ctx) error {
	var req AcceptRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	plan, err := c.svc.Accept(ctx.UserContext(), &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.SuccessWithMessage(ctx, "计划已接受", plan)
}

func (c *Controller) updateDetails(ctx *fiber.Ctx) error {
	var req UpdateDetailsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	actor := middleware.GetUsername(ctx)
	view, err := c.svc.UpdateDetails(ctx.UserContext(), &req, actor)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, view)
}

func (c *Controller) history(ctx *fiber.Ctx) error {
	itemID, err := dal.ParseInt64ID(ctx.Params("itemId"))
	if err != nil {
		return response.FromError(ctx, err)
	}
	records, err := c.svc.History(ctx.UserContext(), ctx.Params("entityId"), itemID)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, records)
}
