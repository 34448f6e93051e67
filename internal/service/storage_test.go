package service

import (
	"path/filepath"
	"strings"
	"testing"

	"storage-server/internal/config"
)

// TestResolveStoragePath tests relative paths joining the upload root
func TestResolveStoragePath(t *testing.T) {
	config.Set(&config.Config{Storage: config.StorageConfig{UploadDir: "/data/uploads"}})

	if got := ResolveStoragePath("org-1/abc.pdf"); got != filepath.Join("/data/uploads", "org-1", "abc.pdf") {
		t.Errorf("relative path resolved to %s", got)
	}
	if got := ResolveStoragePath("/var/files/x.bin"); got != "/var/files/x.bin" {
		t.Errorf("absolute path should pass through, got %s", got)
	}
}

// TestNewBlobPath tests the org-scoped blob layout
func TestNewBlobPath(t *testing.T) {
	path := NewBlobPath("org-1", ".pdf")

	if !strings.HasPrefix(path, "org-1"+string(filepath.Separator)) {
		t.Errorf("blob path should live under the org directory, got %s", path)
	}
	if !strings.HasSuffix(path, ".pdf") {
		t.Errorf("blob path should keep the extension, got %s", path)
	}
	if path == NewBlobPath("org-1", ".pdf") {
		t.Error("blob paths should be unique per call")
	}
}
