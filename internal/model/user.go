package model

import (
	"time"

	"storage-server/internal/pkg/crypto"
)

// User 用户模型
type User struct {
	BaseModel
	Email       string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"type:varchar(255);not null" json:"-"`
	FirstName   string     `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName    string     `gorm:"type:varchar(50)" json:"last_name"`
	Role        UserRole   `gorm:"type:varchar(30);default:member" json:"role"`
	OrgID       string     `gorm:"type:varchar(36);index" json:"org_id"` // 平台所有者可为空
	Status      UserStatus `gorm:"type:varchar(20);default:active" json:"status"`
	LastLoginAt *time.Time `json:"last_login_at"`
	// 关联
	Organization *Organization `gorm:"foreignKey:OrgID" json:"organization,omitempty"`
}

type UserRole string

const (
	RolePlatformOwner UserRole = "platform_owner"     // 平台所有者，跨组织全权
	RoleOrgAdmin      UserRole = "organization_admin" // 组织管理员，本组织全权
	RoleMember        UserRole = "member"             // 普通成员
)

// Valid 角色是否合法
func (r UserRole) Valid() bool {
	switch r {
	case RolePlatformOwner, RoleOrgAdmin, RoleMember:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusDeleted  UserStatus = "deleted"
)

func (User) TableName() string {
	return "users"
}

// FullName 姓名
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// SetPassword 设置密码（加密）
func (u *User) SetPassword(password string) error {
	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

// CheckPassword 验证密码
func (u *User) CheckPassword(password string) bool {
	return crypto.CheckPassword(password, u.Password)
}
