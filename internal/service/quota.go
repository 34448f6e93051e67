package service

import (
	"errors"
	"sync"

	"storage-server/internal/model"

	"gorm.io/gorm"
)

// ErrQuotaExceeded 组织存储配额不足
var ErrQuotaExceeded = errors.New("存储配额不足")

// QuotaService 配额核算。上传按组织串行化，
// 配额检查和元数据写入放在同一个事务里，避免并发上传突破配额
type QuotaService struct {
	locks sync.Map // orgID -> *sync.Mutex
}

var (
	quotaService     *QuotaService
	quotaServiceOnce sync.Once
)

// GetQuotaService 获取配额服务单例
func GetQuotaService() *QuotaService {
	quotaServiceOnce.Do(func() {
		quotaService = &QuotaService{}
	})
	return quotaService
}

func (s *QuotaService) orgLock(orgID string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(orgID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Exceeds 配额判断：现有用量加新文件是否超出配额（单位字节，配额按二进制 MB 换算）
func Exceeds(usage, size, quotaMB int64) bool {
	return usage+size > model.QuotaBytes(quotaMB)
}

// Usage 组织当前存储用量（活跃文件字节数之和）
func (s *QuotaService) Usage(orgID string) (int64, error) {
	return usage(model.DB, orgID)
}

func usage(db *gorm.DB, orgID string) (int64, error) {
	var total int64
	err := db.Model(&model.File{}).
		Where("org_id = ? AND status = ?", orgID, model.FileStatusActive).
		Select("COALESCE(SUM(size), 0)").
		Scan(&total).Error
	return total, err
}

// CommitUpload 在配额内持久化文件元数据。
// 数据块此时已写入 file.StoragePath；任何失败（配额不足、组织不存在、
// 写库失败）都会把数据块从磁盘删掉，保证不残留孤儿文件
func (s *QuotaService) CommitUpload(file *model.File) error {
	mu := s.orgLock(file.OrgID)
	mu.Lock()
	defer mu.Unlock()

	err := model.DB.Transaction(func(tx *gorm.DB) error {
		var org model.Organization
		if err := tx.First(&org, "id = ? AND status = ?", file.OrgID, model.OrgStatusActive).Error; err != nil {
			return err
		}

		used, err := usage(tx, file.OrgID)
		if err != nil {
			return err
		}

		if Exceeds(used, file.Size, org.StorageQuota) {
			return ErrQuotaExceeded
		}

		return tx.Create(file).Error
	})

	if err != nil {
		RemoveBlob(file.StoragePath)
	}
	return err
}
