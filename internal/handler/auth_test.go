package handler

import (
	"testing"
	"time"

	"storage-server/internal/model"
)

// TestRedeemError tests the invitation redemption checks
func TestRedeemError(t *testing.T) {
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name       string
		invitation model.Invitation
		email      string
		want       error
	}{
		{
			name:       "valid open invitation",
			invitation: model.Invitation{Status: model.InvitationStatusActive, ExpiresAt: future},
			email:      "a@example.com",
			want:       nil,
		},
		{
			name:       "email-bound invitation matching",
			invitation: model.Invitation{Status: model.InvitationStatusActive, ExpiresAt: future, Email: "a@example.com"},
			email:      "a@example.com",
			want:       nil,
		},
		{
			name:       "email-bound invitation mismatch",
			invitation: model.Invitation{Status: model.InvitationStatusActive, ExpiresAt: future, Email: "a@example.com"},
			email:      "b@example.com",
			want:       errInvalidInvitation,
		},
		{
			name:       "expired invitation",
			invitation: model.Invitation{Status: model.InvitationStatusActive, ExpiresAt: past},
			email:      "a@example.com",
			want:       errInvitationExpired,
		},
		{
			name:       "already used invitation",
			invitation: model.Invitation{Status: model.InvitationStatusUsed, ExpiresAt: future},
			email:      "a@example.com",
			want:       errInvalidInvitation,
		},
		{
			name:       "cancelled invitation",
			invitation: model.Invitation{Status: model.InvitationStatusCancelled, ExpiresAt: future},
			email:      "a@example.com",
			want:       errInvalidInvitation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redeemError(&tt.invitation, tt.email); got != tt.want {
				t.Errorf("redeemError() = %v, want %v", got, tt.want)
			}
		})
	}
}
