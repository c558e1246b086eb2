package ghg

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/esgdesk/pkg/response"
	"github.com/esgdesk/pkg/router"
	"github.com/gofiber/fiber/v2"
)

// Controller GHG 数据采集控制器
type Controller struct {
	svc *Service
}

// NewController 创建 GHG 控制器
func NewController(svc *Service) *Controller {
	return &Controller{svc: svc}
}

func (c *Controller) Prefix() string {
	return "/ghg-accounting"
}

func (c *Controller) Routes(m map[string]fiber.Handler) []router.Route {
	auth := router.Use(m, "jwt", "ghg")
	return []router.Route{
		{Method: fiber.MethodGet, Path: "/units", Handler: c.units, Middlewares: auth},
		{Method: fiber.MethodGet, Path: "/:templateId/ghg-data-collection", Handler: c.list, Middlewares: auth},
		{Method: fiber.MethodPost, Path: "/:templateId/ghg-data-collection", Handler: c.save, Middlewares: auth},
		{Method: fiber.MethodPost, Path: "/collect-ghg-data", Handler: c.collect, Middlewares: auth},
		{Method: fiber.MethodPost, Path: "/:templateId/import", Handler: c.importFile, Middlewares: auth},
		{Method: fiber.MethodGet, Path: "/:templateId/export", Handler: c.export, Middlewares: auth},
	}
}

func (c *Controller) units(ctx *fiber.Ctx) error {
	return response.Success(ctx, fiber.Map{
		"categories": Categories,
		"units":      Units(),
	})
}

func (c *Controller) list(ctx *fiber.Ctx) error {
	var q ListQuery
	if err := ctx.QueryParser(&q); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	result, err := c.svc.List(ctx.UserContext(), ctx.Params("templateId"), &q)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, result)
}

func (c *Controller) save(ctx *fiber.Ctx) error {
	var in EntryInput
	if err := ctx.BodyParser(&in); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	entry, err := c.svc.Save(ctx.UserContext(), ctx.Params("templateId"), &in)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, entry)
}

func (c *Controller) collect(ctx *fiber.Ctx) error {
	var req CollectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	entries, err := c.svc.Collect(ctx.UserContext(), &req)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, entries)
}

func (c *Controller) importFile(ctx *fiber.Ctx) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return response.ValidateError(ctx, "请上传 file 字段")
	}
	if strings.ToLower(filepath.Ext(fh.Filename)) != ".xlsx" {
		return response.ValidateError(ctx, "仅支持 .xlsx 文件")
	}
	f, err := fh.Open()
	if err != nil {
		return response.FromError(ctx, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return response.FromError(ctx, err)
	}

	result, err := c.svc.Import(ctx.UserContext(), ctx.Params("templateId"), fh.Filename, data)
	if err != nil {
		return response.FromError(ctx, err)
	}
	return response.Success(ctx, result)
}

func (c *Controller) export(ctx *fiber.Ctx) error {
	var q ListQuery
	if err := ctx.QueryParser(&q); err != nil {
		return response.ValidateError(ctx, err.Error())
	}
	templateID := ctx.Params("templateId")
	data, err := c.svc.Export(ctx.UserContext(), templateID, &q)
	if err != nil {
		return response.FromError(ctx, err)
	}
	ctx.Set(fiber.HeaderContentType, xlsxContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, exportFilename(templateID)))
	return ctx.Send(data)
}

// exportFilename 仅保留字母数字和 ._- , 其余替换为下划线
func exportFilename(templateID string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		}
		return '_'
	}, templateID)
	return name + "-ghg.xlsx"
}
