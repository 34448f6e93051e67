package service

import (
	"testing"
)

// TestExceeds tests the quota arithmetic in bytes against an MB quota
func TestExceeds(t *testing.T) {
	const mb = 1024 * 1024

	tests := []struct {
		name    string
		usage   int64
		size    int64
		quotaMB int64
		want    bool
	}{
		{"empty org small upload", 0, 10 * mb, 100, false},
		{"exactly at quota", 0, 100 * mb, 100, false},
		{"one byte over quota", 0, 100*mb + 1, 100, true},
		{"existing usage pushes over", 90 * mb, 20 * mb, 100, true},
		{"existing usage fits", 90 * mb, 10 * mb, 100, false},
		{"100MB upload into 100MB quota", 0, 104857600, 100, false},
		{"zero quota rejects everything", 0, 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Exceeds(tt.usage, tt.size, tt.quotaMB); got != tt.want {
				t.Errorf("Exceeds(%d, %d, %d) = %v, want %v", tt.usage, tt.size, tt.quotaMB, got, tt.want)
			}
		})
	}
}
