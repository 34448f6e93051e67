package service

import (
	"encoding/json"
	"log"

	"storage-server/internal/model"

	"github.com/gin-gonic/gin"
)

// UnserializableDetails 负载序列化失败时的固定占位
const UnserializableDetails = `{"error":"unserializable details"}`

// MarshalDetails 序列化审计详情。序列化失败不向上抛，替换为固定占位
func MarshalDetails(v interface{}) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return UnserializableDetails
	}
	return string(data)
}

// RecordAudit 追加一条审计日志。相对主操作是尽力而为：
// 主操作已经成功时，审计写入失败只记录到运行日志，不影响响应
func RecordAudit(c *gin.Context, action, resource, resourceID string, details interface{}) {
	entry := model.AuditLog{
		UserID:     c.GetString("user_id"),
		UserEmail:  c.GetString("email"),
		OrgID:      c.GetString("org_id"),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    MarshalDetails(details),
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}

	// 异步写入
	go func() {
		if err := model.DB.Create(&entry).Error; err != nil {
			log.Printf("[audit] 写入审计日志失败 action=%s resource=%s/%s: %v",
				action, resource, resourceID, err)
		}
	}()
}
