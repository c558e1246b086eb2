package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Route 路由配置
type Route struct {
	Method      string          // HTTP方法
	Path        string          // 相对于前缀的路径
	Handler     fiber.Handler   // 处理函数
	Middlewares []fiber.Handler // 路由级中间件
}

// Registrar 路由注册器接口
type Registrar interface {
	// Prefix 返回路由前缀
	Prefix() string
	// Routes 返回路由配置列表,接收中间件作为参数
	Routes(middlewares map[string]fiber.Handler) []Route
}

// Use 按名称从中间件表中取出中间件, 缺失的名称忽略
func Use(middlewares map[string]fiber.Handler, names ...string) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(names))
	for _, name := range names {
		if h, ok := middlewares[name]; ok && h != nil {
			out = append(out, h)
		}
	}
	return out
}

// Register 自动注册路由
func Register(app fiber.Router, middlewares map[string]fiber.Handler, controllers ...Registrar) {
	for _, ctrl := range controllers {
		prefix := ctrl.Prefix()
		g := app.Group(prefix)

		for _, route := range ctrl.Routes(middlewares) {
			handlers := append(append([]fiber.Handler{}, route.Middlewares...), route.Handler)
			g.Add(strings.ToUpper(route.Method), route.Path, handlers...)
		}
	}
}
