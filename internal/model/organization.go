package model

// Organization 组织模型 - 资源隔离的顶层单位
type Organization struct {
	BaseModel
	Name         string    `gorm:"type:varchar(100);not null;index" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	StorageQuota int64     `gorm:"default:1024" json:"storage_quota"` // 存储配额（MB）
	Status       OrgStatus `gorm:"type:varchar(20);default:active" json:"status"`
	// 关联
	Users []User `gorm:"foreignKey:OrgID" json:"users,omitempty"`
	Files []File `gorm:"foreignKey:OrgID" json:"files,omitempty"`
}

type OrgStatus string

const (
	OrgStatusActive  OrgStatus = "active"
	OrgStatusDeleted OrgStatus = "deleted"
)

func (Organization) TableName() string {
	return "organizations"
}

// QuotaBytes 配额换算为字节，按二进制 MB（1024×1024）计算
func (o *Organization) QuotaBytes() int64 {
	return QuotaBytes(o.StorageQuota)
}

// QuotaBytes MB 转字节
func QuotaBytes(quotaMB int64) int64 {
	return quotaMB * 1024 * 1024
}
