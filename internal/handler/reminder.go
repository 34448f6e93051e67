package handler

import (
	"time"

	"storage-server/internal/authz"
	"storage-server/internal/middleware"
	"storage-server/internal/model"
	"storage-server/internal/pkg/response"
	"storage-server/internal/pkg/utils"
	"storage-server/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReminderHandler struct{}

func NewReminderHandler() *ReminderHandler {
	return &ReminderHandler{}
}

// CreateReminderRequest 创建提醒请求
type CreateReminderRequest struct {
	FileID        string                  `json:"file_id" binding:"required"`
	Title         string                  `json:"title" binding:"required"`
	Note          string                  `json:"note"`
	Priority      model.ReminderPriority  `json:"priority"`
	RemindAt      time.Time               `json:"remind_at" binding:"required"`
	Recurrence    model.RecurrencePattern `json:"recurrence"`
	RecurrenceEnd *time.Time              `json:"recurrence_end"`
}

// Create 创建提醒。目标文件必须是调用者可见的
func (h *ReminderHandler) Create(c *gin.Context) {
	caller := middleware.GetCaller(c)

	var req CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if !req.Recurrence.Valid() {
		response.BadRequest(c, "无效的重复规则")
		return
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}

	var file model.File
	if err := model.DB.First(&file, "id = ? AND status = ?", req.FileID, model.FileStatusActive).Error; err != nil {
		response.NotFound(c, "文件不存在")
		return
	}
	if !authz.Can(caller, authz.ActionRead, authz.OwnedResource(model.ResourceFile, file.OrgID, file.UploaderID)) {
		response.NotFound(c, "文件不存在")
		return
	}

	reminder := model.Reminder{
		FileID:        file.ID,
		UserID:        caller.ID,
		OrgID:         file.OrgID,
		Title:         req.Title,
		Note:          req.Note,
		Priority:      req.Priority,
		RemindAt:      req.RemindAt,
		Status:        model.ReminderStatusPending,
		Recurrence:    req.Recurrence,
		RecurrenceEnd: req.RecurrenceEnd,
	}
	if err := model.DB.Create(&reminder).Error; err != nil {
		response.ServerError(c, "创建提醒失败")
		return
	}

	service.RecordAudit(c, model.ActionCreate, model.ResourceReminder, reminder.ID, gin.H{"title": reminder.Title})
	response.Created(c, reminder)
}

// List 提醒列表（仅本人的提醒）
func (h *ReminderHandler) List(c *gin.Context) {
	caller := middleware.GetCaller(c)
	page, limit := utils.ParsePagination(c, 20)

	query := model.DB.Model(&model.Reminder{}).Where("user_id = ?", caller.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if start, end := utils.ParseDateRange(c); start != nil || end != nil {
		if start != nil {
			query = query.Where("remind_at >= ?", *start)
		}
		if end != nil {
			query = query.Where("remind_at <= ?", *end)
		}
	}

	var total int64
	query.Count(&total)

	var reminders []model.Reminder
	query.Preload("File").Order("remind_at ASC").Offset((page - 1) * limit).Limit(limit).Find(&reminders)

	response.SuccessPage(c, reminders, total, page, limit)
}

// Get 提醒详情
func (h *ReminderHandler) Get(c *gin.Context) {
	reminder, ok := h.load(c)
	if !ok {
		return
	}
	response.Success(c, reminder)
}

// UpdateReminderRequest 更新提醒请求
type UpdateReminderRequest struct {
	Title         string                  `json:"title"`
	Note          string                  `json:"note"`
	Priority      model.ReminderPriority  `json:"priority"`
	RemindAt      *time.Time              `json:"remind_at"`
	Recurrence    *string                 `json:"recurrence"`
	RecurrenceEnd *time.Time              `json:"recurrence_end"`
}

// Update 更新提醒
func (h *ReminderHandler) Update(c *gin.Context) {
	reminder, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Note != "" {
		updates["note"] = req.Note
	}
	if req.Priority != "" {
		updates["priority"] = req.Priority
	}
	if req.RemindAt != nil {
		updates["remind_at"] = *req.RemindAt
		// 时间改动后重新进入待处理
		updates["status"] = model.ReminderStatusPending
	}
	if req.Recurrence != nil {
		pattern := model.RecurrencePattern(*req.Recurrence)
		if !pattern.Valid() {
			response.BadRequest(c, "无效的重复规则")
			return
		}
		updates["recurrence"] = pattern
	}
	if req.RecurrenceEnd != nil {
		updates["recurrence_end"] = *req.RecurrenceEnd
	}

	if len(updates) > 0 {
		if err := model.DB.Model(reminder).Updates(updates).Error; err != nil {
			response.ServerError(c, "更新提醒失败")
			return
		}
	}

	service.RecordAudit(c, model.ActionUpdate, model.ResourceReminder, reminder.ID, updates)
	response.SuccessWithMessage(c, "更新成功", nil)
}

// Complete 完成提醒。重复提醒完成时生成下一次的待处理提醒；
// 已完成的提醒再次完成返回错误
func (h *ReminderHandler) Complete(c *gin.Context) {
	reminder, ok := h.load(c)
	if !ok {
		return
	}

	if reminder.Status == model.ReminderStatusCompleted {
		response.BadRequest(c, "提醒已完成")
		return
	}
	if reminder.Status == model.ReminderStatusDismissed {
		response.BadRequest(c, "提醒已忽略")
		return
	}

	var next *model.Reminder
	err := model.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(reminder).Update("status", model.ReminderStatusCompleted).Error; err != nil {
			return err
		}
		if next = reminder.NextReminder(); next != nil {
			return tx.Create(next).Error
		}
		return nil
	})
	if err != nil {
		response.ServerError(c, "完成提醒失败")
		return
	}

	service.RecordAudit(c, model.ActionComplete, model.ResourceReminder, reminder.ID, nil)

	payload := gin.H{"completed": reminder.ID}
	if next != nil {
		payload["next"] = next
	}
	response.Success(c, payload)
}

// Dismiss 忽略提醒。重复忽略是幂等的空操作
func (h *ReminderHandler) Dismiss(c *gin.Context) {
	reminder, ok := h.load(c)
	if !ok {
		return
	}

	if reminder.Status == model.ReminderStatusDismissed {
		response.SuccessWithMessage(c, "提醒已忽略", nil)
		return
	}
	if reminder.Status == model.ReminderStatusCompleted {
		response.BadRequest(c, "提醒已完成")
		return
	}

	if err := model.DB.Model(reminder).Update("status", model.ReminderStatusDismissed).Error; err != nil {
		response.ServerError(c, "忽略提醒失败")
		return
	}

	service.RecordAudit(c, model.ActionDismiss, model.ResourceReminder, reminder.ID, nil)
	response.SuccessWithMessage(c, "提醒已忽略", nil)
}

// Delete 删除提醒（软删除）
func (h *ReminderHandler) Delete(c *gin.Context) {
	reminder, ok := h.load(c)
	if !ok {
		return
	}

	if err := model.DB.Delete(reminder).Error; err != nil {
		response.ServerError(c, "删除提醒失败")
		return
	}

	service.RecordAudit(c, model.ActionDelete, model.ResourceReminder, reminder.ID, nil)
	response.SuccessWithMessage(c, "提醒已删除", nil)
}

// load 解析路径中的提醒并校验归属。提醒是个人资源，
// 他人的提醒一律按不存在处理
func (h *ReminderHandler) load(c *gin.Context) (*model.Reminder, bool) {
	caller := middleware.GetCaller(c)

	var reminder model.Reminder
	if err := model.DB.First(&reminder, "id = ?", c.Param("id")).Error; err != nil {
		response.NotFound(c, "提醒不存在")
		return nil, false
	}
	if reminder.UserID != caller.ID && !caller.IsPlatformOwner() {
		response.NotFound(c, "提醒不存在")
		return nil, false
	}
	return &reminder, true
}
