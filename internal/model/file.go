package model

// File 文件元数据。实际内容以 StoragePath 引用磁盘上的数据块
type File struct {
	BaseModel
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	StoragePath string     `gorm:"type:varchar(500);not null" json:"-"` // 存储路径不对外暴露
	Size        int64      `gorm:"not null" json:"size"`                // 字节
	MimeType    string     `gorm:"type:varchar(100)" json:"mime_type"`
	OrgID       string     `gorm:"type:varchar(36);not null;index" json:"org_id"`
	UploaderID  string     `gorm:"type:varchar(36);not null;index" json:"uploader_id"`
	FolderID    string     `gorm:"type:varchar(36);index" json:"folder_id"` // 空表示根目录
	Status      FileStatus `gorm:"type:varchar(20);default:active;index" json:"status"`
	// 关联
	Uploader *User   `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
	Folder   *Folder `gorm:"foreignKey:FolderID" json:"folder,omitempty"`
}

type FileStatus string

const (
	FileStatusActive  FileStatus = "active"
	FileStatusDeleted FileStatus = "deleted"
)

func (File) TableName() string {
	return "files"
}

// Folder 文件夹，parent_id 构成树形结构
type Folder struct {
	BaseModel
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	OrgID     string     `gorm:"type:varchar(36);not null;index" json:"org_id"`
	ParentID  string     `gorm:"type:varchar(36);index" json:"parent_id"` // 空表示根级
	CreatorID string     `gorm:"type:varchar(36);not null" json:"creator_id"`
	Status    FileStatus `gorm:"type:varchar(20);default:active" json:"status"`
	// 关联
	Creator *User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

func (Folder) TableName() string {
	return "folders"
}
