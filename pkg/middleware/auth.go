package middleware

import (
	"strings"

	"github.com/esgdesk/pkg/auth"
	"github.com/esgdesk/pkg/response"
	"github.com/gofiber/fiber/v2"
)

const (
	localUserID   = "userId"
	localUsername = "username"
	localRole     = "role"
	localClaims   = "claims"
)

// JWTAuth JWT认证中间件
func JWTAuth(jwtManager *auth.JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			return response.Unauthorized(c, "未提供认证令牌")
		}
		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := jwtManager.ParseToken(token)
		if err != nil {
			if err == auth.ErrTokenExpired {
				return response.Unauthorized(c, "认证令牌已过期")
			}
			return response.Unauthorized(c, "无效的认证令牌")
		}

		c.Locals(localUserID, claims.UserID)
		c.Locals(localUsername, claims.Username)
		c.Locals(localRole, claims.Role)
		c.Locals(localClaims, claims)
		return c.Next()
	}
}

// FeatureGate 公司功能开关中间件, 功能未启用时拒绝访问
func FeatureGate(casbinSvc *auth.CasbinService, feature string, enforce bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !enforce || casbinSvc.FeatureEnabled(feature) {
			return c.Next()
		}
		return response.Forbidden(c, "功能未开通: "+feature)
	}
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *fiber.Ctx) int64 {
	if v, ok := c.Locals(localUserID).(int64); ok {
		return v
	}
	return 0
}

// GetUsername 从上下文获取用户名
func GetUsername(c *fiber.Ctx) string {
	if v, ok := c.Locals(localUsername).(string); ok {
		return v
	}
	return ""
}

// GetRole 从上下文获取角色
func GetRole(c *fiber.Ctx) string {
	if v, ok := c.Locals(localRole).(string); ok {
		return v
	}
	return ""
}
