package middleware

import (
	"storage-server/internal/authz"
	"storage-server/internal/model"
	"storage-server/internal/pkg/response"
	"storage-server/internal/service"

	"github.com/gin-gonic/gin"
)

// RequireAdmin 管理员权限中间件（组织管理员或平台所有者）
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetCaller(c).IsAdmin() {
			response.Forbidden(c, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePlatformOwner 平台所有者权限中间件
func RequirePlatformOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetCaller(c).IsPlatformOwner() {
			response.Forbidden(c, "需要平台所有者权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin 本人或管理员权限中间件，目标用户 ID 取自路径参数
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authz.SelfOrAdmin(GetCaller(c), c.Param(param)) {
			response.Forbidden(c, "没有操作权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// OrganizationAccess 组织访问中间件。路径参数指定目标组织，
// 非平台所有者只能访问自己的组织。跨组织访问返回 404，不泄露组织是否存在
func OrganizationAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.Param(param)
		if !authz.CanAccessOrganization(GetCaller(c), orgID) {
			response.NotFound(c, "组织不存在")
			c.Abort()
			return
		}

		var org model.Organization
		if err := model.DB.First(&org, "id = ? AND status = ?", orgID, model.OrgStatusActive).Error; err != nil {
			response.NotFound(c, "组织不存在")
			c.Abort()
			return
		}

		c.Set("organization", &org)
		c.Next()
	}
}

// FileAccess 文件访问中间件。解析文件、校验组织归属，
// 并把解析后的物理存储路径放入上下文。跨组织访问与不存在同样返回 404
func FileAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var file model.File
		if err := model.DB.First(&file, "id = ? AND status = ?", c.Param(param), model.FileStatusActive).Error; err != nil {
			response.NotFound(c, "文件不存在")
			c.Abort()
			return
		}

		caller := GetCaller(c)
		if !authz.Can(caller, authz.ActionRead, authz.OwnedResource(model.ResourceFile, file.OrgID, file.UploaderID)) {
			response.NotFound(c, "文件不存在")
			c.Abort()
			return
		}

		c.Set("file", &file)
		c.Set("file_path", service.ResolveStoragePath(file.StoragePath))
		c.Next()
	}
}

// GetFile 从上下文获取 FileAccess 解析的文件
func GetFile(c *gin.Context) *model.File {
	v, _ := c.Get("file")
	if f, ok := v.(*model.File); ok {
		return f
	}
	return nil
}

// GetFilePath 从上下文获取解析后的物理路径
func GetFilePath(c *gin.Context) string {
	return c.GetString("file_path")
}

// GetOrganization 从上下文获取 OrganizationAccess 解析的组织
func GetOrganization(c *gin.Context) *model.Organization {
	v, _ := c.Get("organization")
	if o, ok := v.(*model.Organization); ok {
		return o
	}
	return nil
}
