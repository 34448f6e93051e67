package model

import (
	"time"
)

// AuditLog 审计日志。只追加，从不更新或删除
type AuditLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"` // 自增 ID 兼作时间戳冲突时的排序依据
	UserID     string    `gorm:"type:varchar(36);index" json:"user_id"`
	UserEmail  string    `gorm:"type:varchar(100)" json:"user_email"`
	OrgID      string    `gorm:"type:varchar(36);index" json:"org_id"`
	Action     string    `gorm:"type:varchar(50);not null" json:"action"`
	Resource   string    `gorm:"type:varchar(50);not null" json:"resource"`
	ResourceID string    `gorm:"type:varchar(36)" json:"resource_id"`
	Details    string    `gorm:"type:text" json:"details"` // JSON 负载
	IPAddress  string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent  string    `gorm:"type:varchar(500)" json:"user_agent"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// 操作类型常量
const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionLogin    = "login"
	ActionLogout   = "logout"
	ActionUpload   = "upload"
	ActionDownload = "download"
	ActionExport   = "export"
	ActionRedeem   = "redeem"
	ActionCancel   = "cancel"
	ActionComplete = "complete"
	ActionDismiss  = "dismiss"
)

// 资源类型常量
const (
	ResourceUser         = "user"
	ResourceOrganization = "organization"
	ResourceFile         = "file"
	ResourceFolder       = "folder"
	ResourceInvitation   = "invitation"
	ResourceReminder     = "reminder"
	ResourceAuditLog     = "audit_log"
)
