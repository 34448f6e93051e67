package handler

import (
	"errors"
	"path/filepath"

	"storage-server/internal/authz"
	"storage-server/internal/config"
	"storage-server/internal/middleware"
	"storage-server/internal/model"
	"storage-server/internal/pkg/response"
	"storage-server/internal/pkg/utils"
	"storage-server/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FileHandler struct{}

func NewFileHandler() *FileHandler {
	return &FileHandler{}
}

// Upload 上传文件。扩展名和大小在配额检查之前校验；
// 数据块先落盘，配额核算失败时由配额服务负责清理
func (h *FileHandler) Upload(c *gin.Context) {
	caller := middleware.GetCaller(c)
	cfg := config.Get()

	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "请上传文件")
		return
	}

	ext := filepath.Ext(header.Filename)
	if !cfg.Storage.AllowedExtension(ext) {
		response.BadRequest(c, "不支持的文件类型")
		return
	}
	if header.Size > cfg.Storage.MaxUploadMB*1024*1024 {
		response.BadRequest(c, "文件超出大小限制")
		return
	}

	orgID := caller.OrgID
	if caller.IsPlatformOwner() {
		orgID = c.PostForm("org_id")
		if orgID == "" {
			response.BadRequest(c, "请指定组织")
			return
		}
	}

	folderID := c.PostForm("folder_id")
	if folderID != "" {
		var folder model.Folder
		if err := model.DB.First(&folder, "id = ? AND org_id = ? AND status = ?",
			folderID, orgID, model.FileStatusActive).Error; err != nil {
			response.BadRequest(c, "文件夹不存在")
			return
		}
	}

	blobPath := service.NewBlobPath(orgID, ext)
	if err := service.EnsureBlobDir(blobPath); err != nil {
		response.ServerError(c, "保存文件失败")
		return
	}
	if err := c.SaveUploadedFile(header, service.ResolveStoragePath(blobPath)); err != nil {
		response.ServerError(c, "保存文件失败")
		return
	}

	file := model.File{
		Name:        filepath.Base(header.Filename),
		StoragePath: blobPath,
		Size:        header.Size,
		MimeType:    header.Header.Get("Content-Type"),
		OrgID:       orgID,
		UploaderID:  caller.ID,
		FolderID:    folderID,
		Status:      model.FileStatusActive,
	}

	// 配额检查与元数据写入在同一事务内，失败时数据块已被删除
	if err := service.GetQuotaService().CommitUpload(&file); err != nil {
		switch {
		case errors.Is(err, service.ErrQuotaExceeded):
			response.BadRequest(c, "存储配额不足")
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.BadRequest(c, "组织不存在")
		default:
			response.ServerError(c, "保存文件失败")
		}
		return
	}

	service.RecordAudit(c, model.ActionUpload, model.ResourceFile, file.ID, gin.H{"name": file.Name, "size": file.Size})
	response.Created(c, file)
}

// List 文件列表（组织内）
func (h *FileHandler) List(c *gin.Context) {
	caller := middleware.GetCaller(c)
	page, limit := utils.ParsePagination(c, 20)

	query := model.DB.Model(&model.File{}).Where("status = ?", model.FileStatusActive)
	if caller.IsPlatformOwner() {
		if orgID := c.Query("org_id"); orgID != "" {
			query = query.Where("org_id = ?", orgID)
		}
	} else {
		query = query.Where("org_id = ?", caller.OrgID)
	}

	if folderID := c.Query("folder_id"); folderID != "" {
		query = query.Where("folder_id = ?", folderID)
	}
	if q := c.Query("q"); q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}
	if start, end := utils.ParseDateRange(c); start != nil || end != nil {
		if start != nil {
			query = query.Where("created_at >= ?", *start)
		}
		if end != nil {
			query = query.Where("created_at <= ?", *end)
		}
	}

	var total int64
	query.Count(&total)

	var files []model.File
	query.Preload("Uploader").Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&files)

	response.SuccessPage(c, files, total, page, limit)
}

// Get 文件详情。文件解析和组织校验在 FileAccess 中间件完成
func (h *FileHandler) Get(c *gin.Context) {
	response.Success(c, middleware.GetFile(c))
}

// Download 下载文件
func (h *FileHandler) Download(c *gin.Context) {
	file := middleware.GetFile(c)

	service.RecordAudit(c, model.ActionDownload, model.ResourceFile, file.ID, gin.H{"name": file.Name})
	c.FileAttachment(middleware.GetFilePath(c), file.Name)
}

// UpdateFileRequest 更新文件请求（重命名/移动）
type UpdateFileRequest struct {
	Name     string  `json:"name"`
	FolderID *string `json:"folder_id"` // 空字符串表示移到根目录
}

// Update 重命名或移动文件。成员只能操作自己上传的文件
func (h *FileHandler) Update(c *gin.Context) {
	caller := middleware.GetCaller(c)
	file := middleware.GetFile(c)

	if !authz.Can(caller, authz.ActionWrite, authz.OwnedResource(model.ResourceFile, file.OrgID, file.UploaderID)) {
		response.Forbidden(c, "没有操作权限")
		return
	}

	var req UpdateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = filepath.Base(req.Name)
	}
	if req.FolderID != nil {
		if *req.FolderID != "" {
			var folder model.Folder
			if err := model.DB.First(&folder, "id = ? AND org_id = ? AND status = ?",
				*req.FolderID, file.OrgID, model.FileStatusActive).Error; err != nil {
				response.BadRequest(c, "文件夹不存在")
				return
			}
		}
		updates["folder_id"] = *req.FolderID
	}

	if len(updates) > 0 {
		if err := model.DB.Model(file).Updates(updates).Error; err != nil {
			response.ServerError(c, "更新文件失败")
			return
		}
	}

	service.RecordAudit(c, model.ActionUpdate, model.ResourceFile, file.ID, updates)
	response.SuccessWithMessage(c, "更新成功", nil)
}

// Delete 删除文件（软删除，释放配额占用）。
// 已删除的文件再次删除返回 404
func (h *FileHandler) Delete(c *gin.Context) {
	caller := middleware.GetCaller(c)

	var file model.File
	if err := model.DB.First(&file, "id = ? AND status = ?", c.Param("id"), model.FileStatusActive).Error; err != nil {
		response.NotFound(c, "文件不存在")
		return
	}

	if !authz.CanAccessOrganization(caller, file.OrgID) {
		response.NotFound(c, "文件不存在")
		return
	}
	if !authz.Can(caller, authz.ActionWrite, authz.OwnedResource(model.ResourceFile, file.OrgID, file.UploaderID)) {
		response.Forbidden(c, "没有操作权限")
		return
	}

	if err := model.DB.Model(&file).Update("status", model.FileStatusDeleted).Error; err != nil {
		response.ServerError(c, "删除文件失败")
		return
	}
	if err := model.DB.Delete(&file).Error; err != nil {
		response.ServerError(c, "删除文件失败")
		return
	}

	service.RecordAudit(c, model.ActionDelete, model.ResourceFile, file.ID, gin.H{"name": file.Name, "size": file.Size})
	response.SuccessWithMessage(c, "文件已删除", nil)
}
