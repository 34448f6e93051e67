package handler

import (
	"storage-server/internal/middleware"
	"storage-server/internal/model"
	"storage-server/internal/pkg/response"
	"storage-server/internal/pkg/utils"
	"storage-server/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrganizationHandler struct{}

func NewOrganizationHandler() *OrganizationHandler {
	return &OrganizationHandler{}
}

// CreateOrgRequest 创建组织请求
type CreateOrgRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	StorageQuota int64  `json:"storage_quota"` // MB
}

// Create 创建组织（仅平台所有者）
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req CreateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if req.StorageQuota < 0 {
		response.BadRequest(c, "存储配额不能为负数")
		return
	}
	if req.StorageQuota == 0 {
		req.StorageQuota = 1024
	}

	// 名称在未删除组织中唯一
	var existing model.Organization
	if err := model.DB.Where("name = ? AND status = ?", req.Name, model.OrgStatusActive).First(&existing).Error; err == nil {
		response.BadRequest(c, "组织名称已存在")
		return
	}

	org := model.Organization{
		Name:         req.Name,
		Description:  req.Description,
		StorageQuota: req.StorageQuota,
		Status:       model.OrgStatusActive,
	}
	if err := model.DB.Create(&org).Error; err != nil {
		response.ServerError(c, "创建组织失败")
		return
	}

	service.RecordAudit(c, model.ActionCreate, model.ResourceOrganization, org.ID, gin.H{"name": org.Name, "storage_quota": org.StorageQuota})
	response.Created(c, org)
}

// List 组织列表（仅平台所有者）
func (h *OrganizationHandler) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c, 20)

	query := model.DB.Model(&model.Organization{})
	if q := c.Query("q"); q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var orgs []model.Organization
	query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&orgs)

	response.SuccessPage(c, orgs, total, page, limit)
}

// Get 组织详情，附带存储用量统计
func (h *OrganizationHandler) Get(c *gin.Context) {
	org := middleware.GetOrganization(c)

	used, err := service.GetQuotaService().Usage(org.ID)
	if err != nil {
		response.ServerError(c, "查询存储用量失败")
		return
	}

	var userCount, fileCount int64
	model.DB.Model(&model.User{}).Where("org_id = ?", org.ID).Count(&userCount)
	model.DB.Model(&model.File{}).Where("org_id = ? AND status = ?", org.ID, model.FileStatusActive).Count(&fileCount)

	response.Success(c, gin.H{
		"id":            org.ID,
		"name":          org.Name,
		"description":   org.Description,
		"storage_quota": org.StorageQuota,
		"status":        org.Status,
		"created_at":    org.CreatedAt,
		"usage": gin.H{
			"used_bytes":  used,
			"quota_bytes": org.QuotaBytes(),
			"users":       userCount,
			"files":       fileCount,
		},
	})
}

// UpdateOrgRequest 更新组织请求
type UpdateOrgRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	StorageQuota *int64 `json:"storage_quota"` // 仅平台所有者可改
}

// Update 更新组织。名称和描述管理员可改，配额仅平台所有者可改
func (h *OrganizationHandler) Update(c *gin.Context) {
	caller := middleware.GetCaller(c)
	org := middleware.GetOrganization(c)

	var req UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" && req.Name != org.Name {
		var existing model.Organization
		if err := model.DB.Where("name = ? AND status = ? AND id != ?", req.Name, model.OrgStatusActive, org.ID).First(&existing).Error; err == nil {
			response.BadRequest(c, "组织名称已存在")
			return
		}
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.StorageQuota != nil {
		if !caller.IsPlatformOwner() {
			response.Forbidden(c, "只有平台所有者可以调整配额")
			return
		}
		if *req.StorageQuota < 0 {
			response.BadRequest(c, "存储配额不能为负数")
			return
		}
		updates["storage_quota"] = *req.StorageQuota
	}

	if len(updates) > 0 {
		if err := model.DB.Model(org).Updates(updates).Error; err != nil {
			response.ServerError(c, "更新组织失败")
			return
		}
	}

	service.RecordAudit(c, model.ActionUpdate, model.ResourceOrganization, org.ID, updates)
	response.SuccessWithMessage(c, "更新成功", nil)
}

// Delete 删除组织（仅平台所有者，软删除并级联停用成员）。
// 审计日志不在级联范围内，永不删除
func (h *OrganizationHandler) Delete(c *gin.Context) {
	org := middleware.GetOrganization(c)

	err := model.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("org_id = ?", org.ID).
			Update("status", model.UserStatusDeleted).Error; err != nil {
			return err
		}
		if err := tx.Where("org_id = ?", org.ID).Delete(&model.User{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.File{}).Where("org_id = ?", org.ID).
			Update("status", model.FileStatusDeleted).Error; err != nil {
			return err
		}
		if err := tx.Where("org_id = ?", org.ID).Delete(&model.File{}).Error; err != nil {
			return err
		}
		if err := tx.Where("org_id = ?", org.ID).Delete(&model.Folder{}).Error; err != nil {
			return err
		}
		// 未使用的邀请一并取消
		if err := tx.Model(&model.Invitation{}).
			Where("org_id = ? AND status = ?", org.ID, model.InvitationStatusActive).
			Update("status", model.InvitationStatusCancelled).Error; err != nil {
			return err
		}
		if err := tx.Model(org).Update("status", model.OrgStatusDeleted).Error; err != nil {
			return err
		}
		return tx.Delete(org).Error
	})

	if err != nil {
		response.ServerError(c, "删除组织失败")
		return
	}

	service.RecordAudit(c, model.ActionDelete, model.ResourceOrganization, org.ID, gin.H{"name": org.Name})
	response.SuccessWithMessage(c, "组织已删除", nil)
}
