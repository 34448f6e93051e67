package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storage-server/internal/config"
	"storage-server/internal/model"
	"storage-server/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupTestServer builds a router backed by an in-memory database
func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.Set(&config.Config{
		JWT: config.JWTConfig{
			Secret:             "0123456789abcdef0123456789abcdef",
			ExpireHours:        1,
			RefreshExpireHours: 1,
		},
		Storage: config.StorageConfig{
			UploadDir:    t.TempDir(),
			MaxUploadMB:  10,
			AllowedTypes: []string{"txt", "pdf"},
		},
		Security: config.SecurityConfig{
			MaxLoginAttempts: 5,
			LoginLockMinutes: 1,
			IPMaxAttempts:    50,
			IPLockMinutes:    1,
		},
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	// 连接池里的每个连接都有独立的内存库，必须收缩到单连接
	sqlDB.SetMaxOpenConns(1)
	model.DB = db
	if err := model.AutoMigrate(); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	r := gin.New()
	SetupRouter(r)
	return r
}

func seedOrg(t *testing.T, name string) *model.Organization {
	t.Helper()
	org := &model.Organization{Name: name, StorageQuota: 100, Status: model.OrgStatusActive}
	if err := model.DB.Create(org).Error; err != nil {
		t.Fatalf("seed org: %v", err)
	}
	return org
}

func seedUser(t *testing.T, orgID string, role model.UserRole) (*model.User, string) {
	t.Helper()
	user := &model.User{
		Email:     utils.GenerateRandomString(10) + "@example.com",
		FirstName: "Test",
		Role:      role,
		OrgID:     orgID,
		Status:    model.UserStatusActive,
	}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatalf("seed user password: %v", err)
	}
	if err := model.DB.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, _, err := issueTokens(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return user, token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestFileRename tests renaming a file through the file routes
func TestFileRename(t *testing.T) {
	r := setupTestServer(t)
	org := seedOrg(t, "Acme")
	member, memberToken := seedUser(t, org.ID, model.RoleMember)
	_, otherToken := seedUser(t, org.ID, model.RoleMember)

	file := &model.File{
		Name:        "a.txt",
		StoragePath: org.ID + "/blob.txt",
		Size:        1,
		OrgID:       org.ID,
		UploaderID:  member.ID,
		Status:      model.FileStatusActive,
	}
	if err := model.DB.Create(file).Error; err != nil {
		t.Fatalf("seed file: %v", err)
	}

	// uploader renames own file
	w := doJSON(t, r, http.MethodPut, "/api/files/"+file.ID, memberToken, gin.H{"name": "b.txt"})
	if w.Code != http.StatusOK {
		t.Fatalf("rename own file: status %d, body %s", w.Code, w.Body.String())
	}
	var renamed model.File
	if err := model.DB.First(&renamed, "id = ?", file.ID).Error; err != nil {
		t.Fatalf("reload file: %v", err)
	}
	if renamed.Name != "b.txt" {
		t.Errorf("name = %s, want b.txt", renamed.Name)
	}

	// another member may read but not rename
	w = doJSON(t, r, http.MethodPut, "/api/files/"+file.ID, otherToken, gin.H{"name": "c.txt"})
	if w.Code != http.StatusForbidden {
		t.Errorf("rename other's file: status %d, want 403", w.Code)
	}
}

// TestOrganizationListRestricted tests that only the platform owner can enumerate organizations
func TestOrganizationListRestricted(t *testing.T) {
	r := setupTestServer(t)
	org := seedOrg(t, "Acme")
	seedOrg(t, "Globex")
	_, memberToken := seedUser(t, org.ID, model.RoleMember)
	_, adminToken := seedUser(t, org.ID, model.RoleOrgAdmin)
	_, ownerToken := seedUser(t, "", model.RolePlatformOwner)

	if w := doJSON(t, r, http.MethodGet, "/api/organizations", memberToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("member list: status %d, want 403", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/organizations", adminToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("org admin list: status %d, want 403", w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/organizations", ownerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner list: status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Total int64 `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if resp.Data.Total != 2 {
		t.Errorf("owner sees %d organizations, want 2", resp.Data.Total)
	}
}

// TestOrganizationUpdateRoles tests who may rename an organization and who may change the quota
func TestOrganizationUpdateRoles(t *testing.T) {
	r := setupTestServer(t)
	org := seedOrg(t, "Acme")
	_, memberToken := seedUser(t, org.ID, model.RoleMember)
	_, adminToken := seedUser(t, org.ID, model.RoleOrgAdmin)
	_, ownerToken := seedUser(t, "", model.RolePlatformOwner)

	// plain member may not rename
	if w := doJSON(t, r, http.MethodPut, "/api/organizations/"+org.ID, memberToken, gin.H{"name": "Hijacked"}); w.Code != http.StatusForbidden {
		t.Errorf("member rename: status %d, want 403", w.Code)
	}
	var check model.Organization
	model.DB.First(&check, "id = ?", org.ID)
	if check.Name != "Acme" {
		t.Fatalf("name changed to %s after rejected request", check.Name)
	}

	// org admin may rename
	if w := doJSON(t, r, http.MethodPut, "/api/organizations/"+org.ID, adminToken, gin.H{"name": "Acme Ltd"}); w.Code != http.StatusOK {
		t.Fatalf("admin rename: status %d", w.Code)
	}
	model.DB.First(&check, "id = ?", org.ID)
	if check.Name != "Acme Ltd" {
		t.Errorf("name = %s, want Acme Ltd", check.Name)
	}

	// quota stays platform-owner only
	quota := int64(500)
	if w := doJSON(t, r, http.MethodPut, "/api/organizations/"+org.ID, adminToken, gin.H{"storage_quota": quota}); w.Code != http.StatusForbidden {
		t.Errorf("admin quota change: status %d, want 403", w.Code)
	}
	if w := doJSON(t, r, http.MethodPut, "/api/organizations/"+org.ID, ownerToken, gin.H{"storage_quota": quota}); w.Code != http.StatusOK {
		t.Errorf("owner quota change: status %d, want 200", w.Code)
	}
	model.DB.First(&check, "id = ?", org.ID)
	if check.StorageQuota != quota {
		t.Errorf("storage_quota = %d, want %d", check.StorageQuota, quota)
	}
}

// TestInvitationSingleUse tests that an invitation code can be redeemed exactly once
func TestInvitationSingleUse(t *testing.T) {
	r := setupTestServer(t)
	org := seedOrg(t, "Acme")
	admin, _ := seedUser(t, org.ID, model.RoleOrgAdmin)

	inv := &model.Invitation{
		Code:      utils.GenerateInviteCode(),
		OrgID:     org.ID,
		Role:      model.RoleMember,
		CreatedBy: admin.ID,
		Status:    model.InvitationStatusActive,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := model.DB.Create(inv).Error; err != nil {
		t.Fatalf("seed invitation: %v", err)
	}

	register := func(email string) *httptest.ResponseRecorder {
		return doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
			"code":       inv.Code,
			"email":      email,
			"password":   "secret123",
			"first_name": "New",
		})
	}

	if w := register("first@example.com"); w.Code != http.StatusCreated {
		t.Fatalf("first redemption: status %d, body %s", w.Code, w.Body.String())
	}
	if w := register("second@example.com"); w.Code != http.StatusBadRequest {
		t.Errorf("second redemption: status %d, want 400", w.Code)
	}

	var count int64
	model.DB.Model(&model.User{}).Where("email = ?", "second@example.com").Count(&count)
	if count != 0 {
		t.Error("second redemption must not create a user")
	}

	var used model.Invitation
	model.DB.First(&used, "id = ?", inv.ID)
	if used.Status != model.InvitationStatusUsed {
		t.Errorf("invitation status = %s, want used", used.Status)
	}
}

// TestNotificationMarkReadIdempotent tests that re-marking a read notification still succeeds
func TestNotificationMarkReadIdempotent(t *testing.T) {
	r := setupTestServer(t)
	org := seedOrg(t, "Acme")
	user, token := seedUser(t, org.ID, model.RoleMember)

	n := &model.Notification{UserID: user.ID, OrgID: org.ID, Type: "reminder", Title: "due"}
	if err := model.DB.Create(n).Error; err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	for i := 0; i < 2; i++ {
		if w := doJSON(t, r, http.MethodPut, "/api/notifications/"+n.ID+"/read", token, nil); w.Code != http.StatusOK {
			t.Fatalf("mark read attempt %d: status %d", i+1, w.Code)
		}
	}

	var check model.Notification
	model.DB.First(&check, "id = ?", n.ID)
	if !check.IsRead {
		t.Error("notification should be read")
	}

	// someone else's notification stays invisible
	_, otherToken := seedUser(t, org.ID, model.RoleMember)
	if w := doJSON(t, r, http.MethodPut, "/api/notifications/"+n.ID+"/read", otherToken, nil); w.Code != http.StatusNotFound {
		t.Errorf("foreign notification: status %d, want 404", w.Code)
	}
}
