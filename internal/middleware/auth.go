package middleware

import (
	"errors"
	"strings"

	"storage-server/internal/authz"
	"storage-server/internal/config"
	"storage-server/internal/model"
	"storage-server/internal/pkg/crypto"
	"storage-server/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware JWT 认证中间件。
// 令牌验证通过后重新取库获取用户，角色和组织以当前数据为准，
// 不信任令牌里可能过期的声明。用户不存在或已停用时返回与无效令牌
// 相同的错误，避免暴露账号是否存在
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "缺少认证信息")
			c.Abort()
			return
		}

		// Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "无效的认证信息")
			c.Abort()
			return
		}

		claims, err := crypto.ParseToken(parts[1], config.Get().JWT.Secret)
		if err != nil {
			if errors.Is(err, crypto.ErrTokenExpired) {
				response.Unauthorized(c, "认证信息已过期")
			} else {
				response.Unauthorized(c, "无效的认证信息")
			}
			c.Abort()
			return
		}

		var user model.User
		if err := model.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
			response.Unauthorized(c, "无效的认证信息")
			c.Abort()
			return
		}

		if user.Status != model.UserStatusActive {
			response.Unauthorized(c, "无效的认证信息")
			c.Abort()
			return
		}

		// 将用户信息存入上下文
		c.Set("user_id", user.ID)
		c.Set("org_id", user.OrgID)
		c.Set("email", user.Email)
		c.Set("role", string(user.Role))

		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// GetOrgID 从上下文获取组织 ID
func GetOrgID(c *gin.Context) string {
	return c.GetString("org_id")
}

// GetUserEmail 从上下文获取用户邮箱
func GetUserEmail(c *gin.Context) string {
	return c.GetString("email")
}

// GetUserRole 从上下文获取用户角色
func GetUserRole(c *gin.Context) model.UserRole {
	return model.UserRole(c.GetString("role"))
}

// GetCaller 从上下文构造访问控制主体
func GetCaller(c *gin.Context) authz.Caller {
	return authz.Caller{
		ID:    GetUserID(c),
		OrgID: GetOrgID(c),
		Role:  GetUserRole(c),
	}
}
