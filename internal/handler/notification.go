package handler

import (
	"storage-server/internal/middleware"
	"storage-server/internal/model"
	"storage-server/internal/pkg/response"
	"storage-server/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// List 通知列表（仅本人）
func (h *NotificationHandler) List(c *gin.Context) {
	caller := middleware.GetCaller(c)
	page, limit := utils.ParsePagination(c, 20)

	query := model.DB.Model(&model.Notification{}).Where("user_id = ?", caller.ID)
	if unread := c.Query("unread"); unread == "true" {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	query.Count(&total)

	var notifications []model.Notification
	query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&notifications)

	response.SuccessPage(c, notifications, total, page, limit)
}

// MarkRead 标记单条通知为已读。重复标记是幂等的
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	caller := middleware.GetCaller(c)

	var notification model.Notification
	if err := model.DB.First(&notification, "id = ? AND user_id = ?", c.Param("id"), caller.ID).Error; err != nil {
		response.NotFound(c, "通知不存在")
		return
	}

	if !notification.IsRead {
		if err := model.DB.Model(&notification).Update("is_read", true).Error; err != nil {
			response.ServerError(c, "更新通知失败")
			return
		}
	}

	response.SuccessWithMessage(c, "已标记为已读", nil)
}

// MarkAllRead 标记全部通知为已读
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	caller := middleware.GetCaller(c)

	if err := model.DB.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", caller.ID, false).
		Update("is_read", true).Error; err != nil {
		response.ServerError(c, "更新通知失败")
		return
	}

	response.SuccessWithMessage(c, "已全部标记为已读", nil)
}
