package subsidiary

import (
	"context"
	"strings"

	"github.com/esgdesk/pkg/dal"
	"github.com/esgdesk/pkg/errors"
	"github.com/esgdesk/pkg/response"
	"github.com/esgdesk/pkg/router"
	"github.com/esgdesk/services/team/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaveRequest 新增/编辑/删除子公司, SoftDelete 为 true 时删除
type SaveRequest struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	CIN              string           `json:"cin"`
	Country          string           `json:"country"`
	OwnershipPercent *decimal.Decimal `json:"ownershipPercent"`
	Relationship     string           `json:"relationship"`
	SoftDelete       bool             `json:"softDelete"`
}

var (
	hundred       = decimal.NewFromInt(100)
	relationships = map[string]bool{"subsidiary": true, "associate": true, "joint_venture": true}
)

// Controller 子公司控制器
type Controller struct {
	repo dal.Repository[model.Subsidiary]
}

// NewController 创建子公司控制器
func NewController(db *gorm.DB) *Controller {
	return &Controller{repo: dal.NewBaseRepository[model.Subsidiary](db)}
}

func (c *Controller) Prefix() string {
	return "/company/subsidiary-company"
}

func (c *Controller) Routes(m map[string]fiber.Handler) []router.Route {
	auth := router.Use(m, "jwt")
	return []router.Route{
		{Method: fiber.MethodGet, Path: "", Handler: c.list, Middlewares: auth},
		{Method: fiber.MethodPost, Path: "", Handler: c.save, Middlewares: auth},
	}
}

func (c *Controller) list(ctx *fiber.Ctx) error {
	items, err := c.repo.FindAll(ctx.UserContext(), nil, dal.WithOrder("name ASC"))
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, items)
}

func (c *Controller) save(ctx *fiber.Ctx) error {
	var req SaveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	if req.SoftDelete {
		if err := c.doDelete(ctx.UserContext(), req.ID); err != nil {
			return response.FromError(ctx, err)
		}
		return response.SuccessWithMessage(ctx, "已删除", nil)
	}
	sub, err := c.doSave(ctx.UserContext(), &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, sub)
}

func (c *Controller) doDelete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.Validation("删除时 id 不能为空")
	}
	existing, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.NotFound("子公司")
	}
	return c.repo.Delete(ctx, id)
}

func (c *Controller) doSave(ctx context.Context, req *SaveRequest) (*model.Subsidiary, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, errors.Validation("name 不能为空")
	}
	if req.OwnershipPercent != nil && (req.OwnershipPercent.IsNegative() || req.OwnershipPercent.GreaterThan(hundred)) {
		return nil, errors.Validation("持股比例需在 0 到 100 之间")
	}
	if req.Relationship == "" {
		req.Relationship = "subsidiary"
	}
	if !relationships[req.Relationship] {
		return nil, errors.Validation("不支持的关系类型: " + req.Relationship)
	}

	sub := &model.Subsidiary{}
	if req.ID > 0 {
		existing, err := c.repo.FindByID(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, errors.NotFound("子公司")
		}
		sub = existing
	}
	sub.Name = req.Name
	sub.CIN = strings.ToUpper(strings.TrimSpace(req.CIN))
	sub.Country = req.Country
	sub.Relationship = req.Relationship
	if req.OwnershipPercent != nil {
		sub.OwnershipPercent = req.OwnershipPercent.Round(2)
	}

	var err error
	if sub.ID == 0 {
		err = c.repo.Create(ctx, sub)
	} else {
		err = c.repo.Update(ctx, sub)
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}
