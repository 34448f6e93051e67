package handler

import (
	"testing"
	"time"

	"storage-server/internal/model"
)

// TestAuditCSVRow tests CSV row formatting for the audit export
func TestAuditCSVRow(t *testing.T) {
	log := &model.AuditLog{
		ID:         42,
		UserEmail:  "alice@example.com",
		OrgID:      "org-1",
		Action:     model.ActionUpload,
		Resource:   model.ResourceFile,
		ResourceID: "f-1",
		Details:    `{"name":"report.pdf"}`,
		CreatedAt:  time.Date(2026, 4, 15, 10, 30, 0, 0, time.UTC),
	}

	row := auditCSVRow(log, "Acme Corp")

	if len(row) != len(auditCSVHeader) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(auditCSVHeader))
	}

	want := []string{"42", "2026-04-15 10:30:00", "upload", "file", "f-1", `{"name":"report.pdf"}`, "alice@example.com", "Acme Corp"}
	for i, w := range want {
		if row[i] != w {
			t.Errorf("column %s = %q, want %q", auditCSVHeader[i], row[i], w)
		}
	}
}

// TestAuditCSVHeader tests the export header layout
func TestAuditCSVHeader(t *testing.T) {
	want := []string{"ID", "Date", "Action", "Resource Type", "Resource ID", "Details", "User", "Organization"}
	if len(auditCSVHeader) != len(want) {
		t.Fatalf("header has %d columns, want %d", len(auditCSVHeader), len(want))
	}
	for i := range want {
		if auditCSVHeader[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, auditCSVHeader[i], want[i])
		}
	}
}
