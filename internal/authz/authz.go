// Package authz 集中实现角色与组织隔离的访问控制策略。
// 所有路由的权限判断都收敛到这里，避免在各个 handler 中散落角色检查。
package authz

import (
	"storage-server/internal/model"
)

// Action 操作类型
type Action string

const (
	// ActionRead 读取组织内资源
	ActionRead Action = "read"
	// ActionWrite 修改或删除资源，资源所有者或管理员可执行
	ActionWrite Action = "write"
	// ActionManage 组织级管理操作，仅管理员可执行
	ActionManage Action = "manage"
)

// Caller 已解析的调用者身份。字段来自认证中间件重新取库后的用户行，
// 而不是令牌中可能过期的声明
type Caller struct {
	ID    string
	OrgID string
	Role  model.UserRole
}

// Resource 被请求的资源
type Resource struct {
	Type    string // model.Resource* 常量
	OrgID   string // 资源所属组织，平台级资源为空
	OwnerID string // 资源所有者（上传者/创建者），无主资源为空
}

// IsPlatformOwner 是否平台所有者
func (c Caller) IsPlatformOwner() bool {
	return c.Role == model.RolePlatformOwner
}

// IsAdmin 是否管理员（组织管理员或平台所有者）
func (c Caller) IsAdmin() bool {
	return c.Role == model.RoleOrgAdmin || c.Role == model.RolePlatformOwner
}

// Can 判断调用者能否对资源执行操作。
// 规则（角色特权全序 platform_owner > organization_admin > member）：
//   - 平台所有者不受限制
//   - 跨组织一律拒绝
//   - 组织内：read 放行；write 要求所有者或管理员；manage 要求管理员
func Can(caller Caller, action Action, res Resource) bool {
	if caller.IsPlatformOwner() {
		return true
	}

	// 平台级资源只有平台所有者可操作
	if res.OrgID == "" {
		return false
	}

	// 组织隔离：目标组织必须与调用者一致
	if caller.OrgID != res.OrgID {
		return false
	}

	switch action {
	case ActionRead:
		return true
	case ActionWrite:
		if caller.Role == model.RoleOrgAdmin {
			return true
		}
		return res.OwnerID != "" && res.OwnerID == caller.ID
	case ActionManage:
		return caller.Role == model.RoleOrgAdmin
	}
	return false
}

// CanAccessOrganization 能否访问指定组织
func CanAccessOrganization(caller Caller, orgID string) bool {
	return caller.IsPlatformOwner() || caller.OrgID == orgID
}

// SelfOrAdmin 目标是调用者自己，或调用者是管理员
func SelfOrAdmin(caller Caller, targetUserID string) bool {
	return caller.ID == targetUserID || caller.IsAdmin()
}

// OrgResource 组织内资源的简写
func OrgResource(resType, orgID string) Resource {
	return Resource{Type: resType, OrgID: orgID}
}

// OwnedResource 有主资源的简写
func OwnedResource(resType, orgID, ownerID string) Resource {
	return Resource{Type: resType, OrgID: orgID, OwnerID: ownerID}
}
