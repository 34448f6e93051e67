package handler

import (
	"storage-server/internal/middleware"
	"storage-server/internal/model"
	"storage-server/internal/pkg/response"
	"storage-server/internal/pkg/utils"
	"storage-server/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// List 用户列表。组织管理员只能看本组织，平台所有者可跨组织
func (h *UserHandler) List(c *gin.Context) {
	caller := middleware.GetCaller(c)
	page, limit := utils.ParsePagination(c, 20)

	query := model.DB.Model(&model.User{})
	if caller.IsPlatformOwner() {
		if orgID := c.Query("org_id"); orgID != "" {
			query = query.Where("org_id = ?", orgID)
		}
	} else {
		query = query.Where("org_id = ?", caller.OrgID)
	}

	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		query = query.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var users []model.User
	query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&users)

	response.SuccessPage(c, users, total, page, limit)
}

// Get 用户详情（本人或管理员）
func (h *UserHandler) Get(c *gin.Context) {
	caller := middleware.GetCaller(c)

	var user model.User
	if err := model.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	// 跨组织一律按不存在处理
	if !caller.IsPlatformOwner() && user.OrgID != caller.OrgID {
		response.NotFound(c, "用户不存在")
		return
	}

	response.Success(c, userPayload(&user))
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Email     string         `json:"email" binding:"required,email"`
	Password  string         `json:"password" binding:"required,min=6"`
	FirstName string         `json:"first_name" binding:"required"`
	LastName  string         `json:"last_name"`
	Role      model.UserRole `json:"role"`
	OrgID     string         `json:"org_id"` // 仅平台所有者可指定
}

// Create 创建用户（管理员在本组织内创建）
func (h *UserHandler) Create(c *gin.Context) {
	caller := middleware.GetCaller(c)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if req.Role == "" {
		req.Role = model.RoleMember
	}
	if req.Role != model.RoleOrgAdmin && req.Role != model.RoleMember {
		response.BadRequest(c, "无效的角色")
		return
	}

	orgID := caller.OrgID
	if caller.IsPlatformOwner() {
		if req.OrgID == "" {
			response.BadRequest(c, "请指定组织")
			return
		}
		orgID = req.OrgID
	}

	var org model.Organization
	if err := model.DB.First(&org, "id = ? AND status = ?", orgID, model.OrgStatusActive).Error; err != nil {
		response.BadRequest(c, "组织不存在")
		return
	}

	var existing model.User
	if err := model.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		response.BadRequest(c, "邮箱已被注册")
		return
	}

	user := model.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		OrgID:     orgID,
		Status:    model.UserStatusActive,
	}
	if err := user.SetPassword(req.Password); err != nil {
		response.ServerError(c, "密码加密失败")
		return
	}

	if err := model.DB.Create(&user).Error; err != nil {
		response.ServerError(c, "创建用户失败")
		return
	}

	service.RecordAudit(c, model.ActionCreate, model.ResourceUser, user.ID, gin.H{"email": user.Email, "role": user.Role})
	response.Created(c, userPayload(&user))
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Status    model.UserStatus `json:"status"` // 仅管理员可改
}

// Update 更新用户（本人或管理员）
func (h *UserHandler) Update(c *gin.Context) {
	caller := middleware.GetCaller(c)

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var user model.User
	if err := model.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		response.NotFound(c, "用户不存在")
		return
	}
	if !caller.IsPlatformOwner() && user.OrgID != caller.OrgID {
		response.NotFound(c, "用户不存在")
		return
	}

	updates := map[string]interface{}{}
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if req.Status != "" {
		if !caller.IsAdmin() {
			response.Forbidden(c, "没有操作权限")
			return
		}
		if req.Status != model.UserStatusActive && req.Status != model.UserStatusInactive {
			response.BadRequest(c, "无效的状态")
			return
		}
		updates["status"] = req.Status
	}

	if len(updates) > 0 {
		if err := model.DB.Model(&user).Updates(updates).Error; err != nil {
			response.ServerError(c, "更新用户失败")
			return
		}
	}

	service.RecordAudit(c, model.ActionUpdate, model.ResourceUser, user.ID, updates)
	response.SuccessWithMessage(c, "更新成功", nil)
}

// UpdateRoleRequest 变更角色请求
type UpdateRoleRequest struct {
	Role model.UserRole `json:"role" binding:"required"`
}

// UpdateRole 变更用户角色。不允许提升为平台所有者
func (h *UserHandler) UpdateRole(c *gin.Context) {
	caller := middleware.GetCaller(c)

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if req.Role != model.RoleOrgAdmin && req.Role != model.RoleMember {
		response.BadRequest(c, "无效的角色")
		return
	}

	var user model.User
	if err := model.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		response.NotFound(c, "用户不存在")
		return
	}
	if !caller.IsPlatformOwner() && user.OrgID != caller.OrgID {
		response.NotFound(c, "用户不存在")
		return
	}
	if user.Role == model.RolePlatformOwner {
		response.Forbidden(c, "没有操作权限")
		return
	}

	if err := model.DB.Model(&user).Update("role", req.Role).Error; err != nil {
		response.ServerError(c, "更新角色失败")
		return
	}

	service.RecordAudit(c, model.ActionUpdate, model.ResourceUser, user.ID, gin.H{"role": req.Role})
	response.SuccessWithMessage(c, "角色已更新", nil)
}

// Delete 删除用户（软删除）
func (h *UserHandler) Delete(c *gin.Context) {
	caller := middleware.GetCaller(c)

	var user model.User
	if err := model.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		response.NotFound(c, "用户不存在")
		return
	}
	if !caller.IsPlatformOwner() && user.OrgID != caller.OrgID {
		response.NotFound(c, "用户不存在")
		return
	}
	if user.ID == caller.ID {
		response.BadRequest(c, "不能删除自己")
		return
	}
	if user.Role == model.RolePlatformOwner {
		response.Forbidden(c, "没有操作权限")
		return
	}

	if err := model.DB.Model(&user).Update("status", model.UserStatusDeleted).Error; err != nil {
		response.ServerError(c, "删除用户失败")
		return
	}
	if err := model.DB.Delete(&user).Error; err != nil {
		response.ServerError(c, "删除用户失败")
		return
	}

	service.RecordAudit(c, model.ActionDelete, model.ResourceUser, user.ID, gin.H{"email": user.Email})
	response.SuccessWithMessage(c, "用户已删除", nil)
}
