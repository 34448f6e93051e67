package model

import (
	"testing"
	"time"
)

// TestInvitationRedeemable tests the redemption preconditions
func TestInvitationRedeemable(t *testing.T) {
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name string
		inv  Invitation
		want bool
	}{
		{"active and not expired", Invitation{Status: InvitationStatusActive, ExpiresAt: future}, true},
		{"active but expired", Invitation{Status: InvitationStatusActive, ExpiresAt: past}, false},
		{"already used", Invitation{Status: InvitationStatusUsed, ExpiresAt: future}, false},
		{"cancelled", Invitation{Status: InvitationStatusCancelled, ExpiresAt: future}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inv.Redeemable(); got != tt.want {
				t.Errorf("Redeemable() = %v, want %v", got, tt.want)
			}
		})
	}
}
