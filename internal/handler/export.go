package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"storage-server/internal/model"
	"storage-server/internal/pkg/response"
	"storage-server/internal/service"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct{}

func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// auditCSVHeader CSV 表头
var auditCSVHeader = []string{"ID", "Date", "Action", "Resource Type", "Resource ID", "Details", "User", "Organization"}

// auditCSVRow 把一条审计日志转成 CSV 行
func auditCSVRow(log *model.AuditLog, orgName string) []string {
	return []string{
		fmt.Sprintf("%d", log.ID),
		log.CreatedAt.Format("2006-01-02 15:04:05"),
		log.Action,
		log.Resource,
		log.ResourceID,
		log.Details,
		log.UserEmail,
		orgName,
	}
}

// ExportAuditLogs 导出审计日志为 CSV（管理员）。
// 支持与列表相同的过滤条件，不分页
func (h *ExportHandler) ExportAuditLogs(c *gin.Context) {
	audit := NewAuditHandler()
	query := applyAuditFilters(c, audit.scopedQuery(c))

	var logs []model.AuditLog
	if err := query.Order("created_at DESC, id DESC").Limit(10000).Find(&logs).Error; err != nil {
		response.ServerError(c, "查询审计日志失败")
		return
	}

	// 组织名称映射，避免逐行查库
	orgNames := map[string]string{}
	var orgs []model.Organization
	model.DB.Unscoped().Select("id, name").Find(&orgs)
	for _, org := range orgs {
		orgNames[org.ID] = org.Name
	}

	filename := fmt.Sprintf("audit_logs_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	// UTF-8 BOM，兼容 Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	writer.Write(auditCSVHeader)
	for i := range logs {
		writer.Write(auditCSVRow(&logs[i], orgNames[logs[i].OrgID]))
	}
	writer.Flush()

	service.RecordAudit(c, model.ActionExport, model.ResourceAuditLog, "", gin.H{"rows": len(logs)})
}
