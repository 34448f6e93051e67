package handler

import (
	"storage-server/internal/authz"
	"storage-server/internal/middleware"
	"storage-server/internal/model"
	"storage-server/internal/pkg/response"
	"storage-server/internal/pkg/utils"
	"storage-server/internal/service"

	"github.com/gin-gonic/gin"
)

type FolderHandler struct{}

func NewFolderHandler() *FolderHandler {
	return &FolderHandler{}
}

// CreateFolderRequest 创建文件夹请求
type CreateFolderRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID string `json:"parent_id"`
	OrgID    string `json:"org_id"` // 仅平台所有者可指定
}

// Create 创建文件夹。同一父目录下名称不能重复
func (h *FolderHandler) Create(c *gin.Context) {
	caller := middleware.GetCaller(c)

	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
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

	if req.ParentID != "" {
		var parent model.Folder
		if err := model.DB.First(&parent, "id = ? AND org_id = ? AND status = ?",
			req.ParentID, orgID, model.FileStatusActive).Error; err != nil {
			response.BadRequest(c, "上级文件夹不存在")
			return
		}
	}

	var existing model.Folder
	if err := model.DB.Where("name = ? AND org_id = ? AND parent_id = ? AND status = ?",
		req.Name, orgID, req.ParentID, model.FileStatusActive).First(&existing).Error; err == nil {
		response.BadRequest(c, "同名文件夹已存在")
		return
	}

	folder := model.Folder{
		Name:      req.Name,
		OrgID:     orgID,
		ParentID:  req.ParentID,
		CreatorID: caller.ID,
		Status:    model.FileStatusActive,
	}
	if err := model.DB.Create(&folder).Error; err != nil {
		response.ServerError(c, "创建文件夹失败")
		return
	}

	service.RecordAudit(c, model.ActionCreate, model.ResourceFolder, folder.ID, gin.H{"name": folder.Name})
	response.Created(c, folder)
}

// List 文件夹列表（组织内，可按上级过滤）
func (h *FolderHandler) List(c *gin.Context) {
	caller := middleware.GetCaller(c)
	page, limit := utils.ParsePagination(c, 50)

	query := model.DB.Model(&model.Folder{}).Where("status = ?", model.FileStatusActive)
	if caller.IsPlatformOwner() {
		if orgID := c.Query("org_id"); orgID != "" {
			query = query.Where("org_id = ?", orgID)
		}
	} else {
		query = query.Where("org_id = ?", caller.OrgID)
	}

	if parentID, ok := c.GetQuery("parent_id"); ok {
		query = query.Where("parent_id = ?", parentID)
	}
	if q := c.Query("q"); q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}

	var total int64
	query.Count(&total)

	var folders []model.Folder
	query.Order("name ASC").Offset((page - 1) * limit).Limit(limit).Find(&folders)

	response.SuccessPage(c, folders, total, page, limit)
}

// UpdateFolderRequest 重命名文件夹请求
type UpdateFolderRequest struct {
	Name string `json:"name" binding:"required"`
}

// Update 重命名文件夹。创建者或管理员可操作
func (h *FolderHandler) Update(c *gin.Context) {
	caller := middleware.GetCaller(c)

	var req UpdateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	var folder model.Folder
	if err := model.DB.First(&folder, "id = ? AND status = ?", c.Param("id"), model.FileStatusActive).Error; err != nil {
		response.NotFound(c, "文件夹不存在")
		return
	}
	if !authz.CanAccessOrganization(caller, folder.OrgID) {
		response.NotFound(c, "文件夹不存在")
		return
	}
	if !authz.Can(caller, authz.ActionWrite, authz.OwnedResource(model.ResourceFolder, folder.OrgID, folder.CreatorID)) {
		response.Forbidden(c, "没有操作权限")
		return
	}

	var existing model.Folder
	if err := model.DB.Where("name = ? AND org_id = ? AND parent_id = ? AND status = ? AND id != ?",
		req.Name, folder.OrgID, folder.ParentID, model.FileStatusActive, folder.ID).First(&existing).Error; err == nil {
		response.BadRequest(c, "同名文件夹已存在")
		return
	}

	if err := model.DB.Model(&folder).Update("name", req.Name).Error; err != nil {
		response.ServerError(c, "更新文件夹失败")
		return
	}

	service.RecordAudit(c, model.ActionUpdate, model.ResourceFolder, folder.ID, gin.H{"name": req.Name})
	response.SuccessWithMessage(c, "更新成功", nil)
}

// Delete 删除文件夹。仍包含活跃文件或子文件夹时拒绝删除
func (h *FolderHandler) Delete(c *gin.Context) {
	caller := middleware.GetCaller(c)

	var folder model.Folder
	if err := model.DB.First(&folder, "id = ? AND status = ?", c.Param("id"), model.FileStatusActive).Error; err != nil {
		response.NotFound(c, "文件夹不存在")
		return
	}
	if !authz.CanAccessOrganization(caller, folder.OrgID) {
		response.NotFound(c, "文件夹不存在")
		return
	}
	if !authz.Can(caller, authz.ActionWrite, authz.OwnedResource(model.ResourceFolder, folder.OrgID, folder.CreatorID)) {
		response.Forbidden(c, "没有操作权限")
		return
	}

	var fileCount, subCount int64
	model.DB.Model(&model.File{}).Where("folder_id = ? AND status = ?", folder.ID, model.FileStatusActive).Count(&fileCount)
	model.DB.Model(&model.Folder{}).Where("parent_id = ? AND status = ?", folder.ID, model.FileStatusActive).Count(&subCount)
	if fileCount > 0 || subCount > 0 {
		response.BadRequest(c, "文件夹不为空，无法删除")
		return
	}

	if err := model.DB.Model(&folder).Update("status", model.FileStatusDeleted).Error; err != nil {
		response.ServerError(c, "删除文件夹失败")
		return
	}
	if err := model.DB.Delete(&folder).Error; err != nil {
		response.ServerError(c, "删除文件夹失败")
		return
	}

	service.RecordAudit(c, model.ActionDelete, model.ResourceFolder, folder.ID, gin.H{"name": folder.Name})
	response.SuccessWithMessage(c, "文件夹已删除", nil)
}
