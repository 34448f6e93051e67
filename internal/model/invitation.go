package model

import (
	"time"
)

// Invitation 邀请表。邀请码一次性使用，"删除"只是取消，不做物理删除
type Invitation struct {
	BaseModel
	Code      string           `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	OrgID     string           `gorm:"type:varchar(36);not null;index" json:"org_id"`
	Role      UserRole         `gorm:"type:varchar(30);default:member" json:"role"` // 兑换后授予的角色
	Email     string           `gorm:"type:varchar(100)" json:"email"`              // 可选，限定受邀邮箱
	CreatedBy string           `gorm:"type:varchar(36);not null" json:"created_by"`
	Status    InvitationStatus `gorm:"type:varchar(20);default:active" json:"status"`
	ExpiresAt time.Time        `gorm:"not null" json:"expires_at"`
	UsedBy    string           `gorm:"type:varchar(36)" json:"used_by"`
	UsedAt    *time.Time       `json:"used_at"`
	// 关联
	Organization *Organization `gorm:"foreignKey:OrgID" json:"organization,omitempty"`
}

type InvitationStatus string

const (
	InvitationStatusActive    InvitationStatus = "active"
	InvitationStatusUsed      InvitationStatus = "used"
	InvitationStatusCancelled InvitationStatus = "cancelled"
)

func (Invitation) TableName() string {
	return "invitations"
}

// Expired 是否已过期
func (i *Invitation) Expired() bool {
	return time.Now().After(i.ExpiresAt)
}

// Redeemable 是否可兑换
func (i *Invitation) Redeemable() bool {
	return i.Status == InvitationStatusActive && !i.Expired()
}
