package service

import (
	"log"
	"os"
	"path/filepath"

	"storage-server/internal/config"
	"storage-server/internal/pkg/utils"
)

// ResolveStoragePath 解析文件的物理存储路径。
// 绝对路径原样返回，相对路径基于上传根目录解析
func ResolveStoragePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(config.Get().Storage.UploadDir, path)
}

// NewBlobPath 生成新文件的存储路径（相对上传根目录），按组织分目录
func NewBlobPath(orgID, ext string) string {
	return filepath.Join(orgID, utils.GenerateUUID()+ext)
}

// EnsureBlobDir 确保存储路径的父目录存在
func EnsureBlobDir(path string) error {
	return os.MkdirAll(filepath.Dir(ResolveStoragePath(path)), 0755)
}

// RemoveBlob 删除磁盘上的数据块。失败只记录日志，不影响主流程
func RemoveBlob(path string) {
	full := ResolveStoragePath(path)
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		log.Printf("[storage] 删除文件失败 %s: %v", full, err)
	}
}
