package handler

import (
	"storage-server/internal/middleware"
	"storage-server/internal/model"
	"storage-server/internal/pkg/response"
	"storage-server/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuditHandler struct{}

func NewAuditHandler() *AuditHandler {
	return &AuditHandler{}
}

// scopedQuery 按调用者身份限定审计日志范围。
// 平台所有者可查全部并按 org_id 过滤，组织管理员只能查本组织
func (h *AuditHandler) scopedQuery(c *gin.Context) *gorm.DB {
	caller := middleware.GetCaller(c)
	query := model.DB.Model(&model.AuditLog{})
	if caller.IsPlatformOwner() {
		if orgID := c.Query("org_id"); orgID != "" {
			query = query.Where("org_id = ?", orgID)
		}
	} else {
		query = query.Where("org_id = ?", caller.OrgID)
	}
	return query
}

func applyAuditFilters(c *gin.Context, query *gorm.DB) *gorm.DB {
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if start, end := utils.ParseDateRange(c); start != nil || end != nil {
		if start != nil {
			query = query.Where("created_at >= ?", *start)
		}
		if end != nil {
			query = query.Where("created_at <= ?", *end)
		}
	}
	return query
}

// List 审计日志列表（管理员）
func (h *AuditHandler) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c, 20)
	query := applyAuditFilters(c, h.scopedQuery(c))

	var total int64
	query.Count(&total)

	var logs []model.AuditLog
	query.Order("created_at DESC, id DESC").Offset((page - 1) * limit).Limit(limit).Find(&logs)

	response.SuccessPage(c, logs, total, page, limit)
}

// Stats 审计统计：总量、按操作和按资源的分布、活跃用户排行
func (h *AuditHandler) Stats(c *gin.Context) {
	type bucket struct {
		Key   string `json:"key"`
		Count int64  `json:"count"`
	}

	var total int64
	applyAuditFilters(c, h.scopedQuery(c)).Count(&total)

	var byAction []bucket
	applyAuditFilters(c, h.scopedQuery(c)).
		Select("action as `key`, count(*) as count").
		Group("action").Order("count DESC").Scan(&byAction)

	var byResource []bucket
	applyAuditFilters(c, h.scopedQuery(c)).
		Select("resource as `key`, count(*) as count").
		Group("resource").Order("count DESC").Scan(&byResource)

	var topUsers []bucket
	applyAuditFilters(c, h.scopedQuery(c)).
		Select("user_email as `key`, count(*) as count").
		Where("user_email <> ''").
		Group("user_email").Order("count DESC").Limit(10).Scan(&topUsers)

	response.Success(c, gin.H{
		"total":       total,
		"by_action":   byAction,
		"by_resource": byResource,
		"top_users":   topUsers,
	})
}
