package location

import (
	"context"
	"strings"

	"github.com/esgdesk/pkg/dal"
	"github.com/esgdesk/pkg/errors"
	"github.com/esgdesk/pkg/response"
	"github.com/esgdesk/pkg/router"
	"github.com/esgdesk/services/team/internal/model"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SaveRequest 新增/编辑地点
type SaveRequest struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Pincode string `json:"pincode"`
	Type    string `json:"type"`
}

var validTypes = map[string]bool{
	model.LocationOffice:    true,
	model.LocationPlant:     true,
	model.LocationWarehouse: true,
	model.LocationOther:     true,
}

// Controller 公司地点控制器
type Controller struct {
	repo dal.Repository[model.Location]
}

// NewController 创建地点控制器
func NewController(db *gorm.DB) *Controller {
	return &Controller{repo: dal.NewBaseRepository[model.Location](db)}
}

func (c *Controller) Prefix() string {
	return "/company/locations"
}

func (c *Controller) Routes(m map[string]fiber.Handler) []router.Route {
	auth := router.Use(m, "jwt")
	return []router.Route{
		{Method: fiber.MethodGet, Path: "", Handler: c.list, Middlewares: auth},
		{Method: fiber.MethodPost, Path: "", Handler: c.save, Middlewares: auth},
		{Method: fiber.MethodDelete, Path: "/:id", Handler: c.delete, Middlewares: auth},
	}
}

func (c *Controller) list(ctx *fiber.Ctx) error {
	opts := []dal.QueryOption{dal.WithOrder("name ASC")}
	if t := ctx.Query("type"); t != "" {
		opts = append(opts, dal.WithWhere("type = ?", t))
	}
	locations, err := c.repo.FindAll(ctx.UserContext(), nil, opts...)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, locations)
}

func (c *Controller) save(ctx *fiber.Ctx) error {
	var req SaveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	loc, err := c.doSave(ctx.UserContext(), &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, loc)
}

func (c *Controller) doSave(ctx context.Context, req *SaveRequest) (*model.Location, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, errors.Validation("name 不能为空")
	}
	if req.Type == "" {
		req.Type = model.LocationOffice
	}
	if !validTypes[req.Type] {
		return nil, errors.Validation("不支持的地点类型: " + req.Type)
	}

	loc := &model.Location{}
	if req.ID > 0 {
		existing, err := c.repo.FindByID(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, errors.NotFound("地点")
		}
		loc = existing
	}
	loc.Name = req.Name
	loc.Address = req.Address
	loc.City = req.City
	loc.State = req.State
	loc.Country = req.Country
	loc.Pincode = req.Pincode
	loc.Type = req.Type

	var err error
	if loc.ID == 0 {
		err = c.repo.Create(ctx, loc)
	} else {
		err = c.repo.Update(ctx, loc)
	}
	if err != nil {
		return nil, err
	}
	return loc, nil
}

func (c *Controller) delete(ctx *fiber.Ctx) error {
	id, err := dal.ParseInt64ID(ctx.Params("id"))
	if err != nil {
		return response.FromError(ctx, err)
	}
	existing, err := c.repo.FindByID(ctx.UserContext(), id)
	if err != nil {
		return response.FromError(ctx, err)
	}
	if existing == nil {
		return response.NotFound(ctx, "地点不存在")
	}
	if err := c.repo.Delete(ctx.UserContext(), id); err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, nil)
}
