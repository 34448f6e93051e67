package response

import (
	"testing"
)

// TestPages tests total page calculation
func TestPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 10, 10},
		{101, 10, 11},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := Pages(tt.total, tt.limit); got != tt.want {
			t.Errorf("Pages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}
