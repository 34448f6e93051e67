package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func testContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

// TestParsePagination tests clamping of page and limit
func TestParsePagination(t *testing.T) {
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 20},
		{"page=3&limit=50", 3, 50},
		{"page=0&limit=0", 1, 20},
		{"page=-5&limit=-1", 1, 20},
		{"limit=500", 1, 100},
		{"page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		c := testContext(tt.query)
		page, limit := ParsePagination(c, 20)
		if page != tt.wantPage || limit != tt.wantLimit {
			t.Errorf("query %q: got (%d, %d), want (%d, %d)", tt.query, page, limit, tt.wantPage, tt.wantLimit)
		}
	}
}

// TestParseDateRange tests ISO-8601 range parsing and end-of-day extension
func TestParseDateRange(t *testing.T) {
	c := testContext("startDate=2026-01-01&endDate=2026-01-31")
	start, end := ParseDateRange(c)
	if start == nil || end == nil {
		t.Fatal("expected both bounds to parse")
	}
	if start.Day() != 1 || start.Month() != time.January {
		t.Errorf("start = %v, want 2026-01-01", start)
	}
	// date-only end extends to the end of that day
	if end.Hour() != 23 || end.Minute() != 59 {
		t.Errorf("date-only end should cover the whole day, got %v", end)
	}

	// full timestamps are taken as-is
	c = testContext("endDate=2026-01-31T12:00:00Z")
	_, end = ParseDateRange(c)
	if end == nil || end.Hour() != 12 {
		t.Errorf("timestamp end should not be extended, got %v", end)
	}

	// garbage is ignored
	c = testContext("startDate=yesterday")
	start, _ = ParseDateRange(c)
	if start != nil {
		t.Errorf("invalid date should be ignored, got %v", start)
	}
}

// TestGenerateInviteCode tests the shape and uniqueness of invite codes
func TestGenerateInviteCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := GenerateInviteCode()
		if len(code) != 32 {
			t.Fatalf("invite code length = %d, want 32", len(code))
		}
		for _, ch := range code {
			if !(ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'f') {
				t.Fatalf("invite code contains non-hex character %q", ch)
			}
		}
		if seen[code] {
			t.Fatal("duplicate invite code generated")
		}
		seen[code] = true
	}
}

// TestMaskEmail tests email masking
func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice@example.com", "a***e@example.com"},
		{"ab@example.com", "ab@example.com"},
		{"not-an-email", "not-an-email"},
	}
	for _, tt := range tests {
		if got := MaskEmail(tt.in); got != tt.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
