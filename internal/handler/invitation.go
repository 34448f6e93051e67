package handler

import (
	"time"

	"storage-server/internal/middleware"
	"storage-server/internal/model"
	"storage-server/internal/pkg/response"
	"storage-server/internal/pkg/utils"
	"storage-server/internal/service"

	"github.com/gin-gonic/gin"
)

type InvitationHandler struct{}

func NewInvitationHandler() *InvitationHandler {
	return &InvitationHandler{}
}

// CreateInvitationRequest 创建邀请请求
type CreateInvitationRequest struct {
	Role          model.UserRole `json:"role" binding:"required"`
	Email         string         `json:"email"`  // 可选，限定受邀邮箱
	OrgID         string         `json:"org_id"` // 仅平台所有者可指定
	ExpiresInHour int            `json:"expires_in_hours"`
}

// Create 创建邀请码（管理员）。邀请绑定一个组织和一个角色
func (h *InvitationHandler) Create(c *gin.Context) {
	caller := middleware.GetCaller(c)

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
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

	if req.ExpiresInHour <= 0 {
		req.ExpiresInHour = 72
	}

	invitation := model.Invitation{
		Code:      utils.GenerateInviteCode(),
		OrgID:     orgID,
		Role:      req.Role,
		Email:     req.Email,
		CreatedBy: caller.ID,
		Status:    model.InvitationStatusActive,
		ExpiresAt: time.Now().Add(time.Duration(req.ExpiresInHour) * time.Hour),
	}
	if err := model.DB.Create(&invitation).Error; err != nil {
		response.ServerError(c, "创建邀请失败")
		return
	}

	service.RecordAudit(c, model.ActionCreate, model.ResourceInvitation, invitation.ID, gin.H{"role": invitation.Role, "org_id": orgID})
	response.Created(c, invitation)
}

// List 邀请列表（管理员，组织内）
func (h *InvitationHandler) List(c *gin.Context) {
	caller := middleware.GetCaller(c)
	page, limit := utils.ParsePagination(c, 20)

	query := model.DB.Model(&model.Invitation{})
	if caller.IsPlatformOwner() {
		if orgID := c.Query("org_id"); orgID != "" {
			query = query.Where("org_id = ?", orgID)
		}
	} else {
		query = query.Where("org_id = ?", caller.OrgID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var invitations []model.Invitation
	query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&invitations)

	response.SuccessPage(c, invitations, total, page, limit)
}

// Cancel 取消邀请。邀请不做物理删除，只转为取消状态
func (h *InvitationHandler) Cancel(c *gin.Context) {
	caller := middleware.GetCaller(c)

	var invitation model.Invitation
	if err := model.DB.First(&invitation, "id = ?", c.Param("id")).Error; err != nil {
		response.NotFound(c, "邀请不存在")
		return
	}
	if !caller.IsPlatformOwner() && invitation.OrgID != caller.OrgID {
		response.NotFound(c, "邀请不存在")
		return
	}
	if invitation.Status != model.InvitationStatusActive {
		response.BadRequest(c, "邀请已失效")
		return
	}

	if err := model.DB.Model(&invitation).Update("status", model.InvitationStatusCancelled).Error; err != nil {
		response.ServerError(c, "取消邀请失败")
		return
	}

	service.RecordAudit(c, model.ActionCancel, model.ResourceInvitation, invitation.ID, nil)
	response.SuccessWithMessage(c, "邀请已取消", nil)
}
