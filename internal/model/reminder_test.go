package model

import (
	"testing"
	"time"
)

// TestNextOccurrence tests recurrence stepping for each pattern
func TestNextOccurrence(t *testing.T) {
	base := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		pattern RecurrencePattern
		want    time.Time
	}{
		{RecurrenceDaily, time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)},
		{RecurrenceWeekly, time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC)},
		// AddDate normalizes Jan 31 + 1 month to Mar 3
		{RecurrenceMonthly, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)},
		{RecurrenceYearly, time.Date(2027, 1, 31, 9, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		r := &Reminder{RemindAt: base, Recurrence: tt.pattern}
		if got := r.NextOccurrence(); !got.Equal(tt.want) {
			t.Errorf("%s: NextOccurrence() = %v, want %v", tt.pattern, got, tt.want)
		}
	}

	// non-recurring reminder has no next occurrence
	r := &Reminder{RemindAt: base, Recurrence: RecurrenceNone}
	if got := r.NextOccurrence(); !got.IsZero() {
		t.Errorf("non-recurring NextOccurrence() = %v, want zero", got)
	}
}

// TestNextReminder tests spawning the follow-up reminder on completion
func TestNextReminder(t *testing.T) {
	base := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	r := &Reminder{
		FileID:     "f-1",
		UserID:     "u-1",
		OrgID:      "org-1",
		Title:      "Renew contract",
		Note:       "check attachments",
		Priority:   PriorityHigh,
		RemindAt:   base,
		Status:     ReminderStatusCompleted,
		Recurrence: RecurrenceWeekly,
	}

	next := r.NextReminder()
	if next == nil {
		t.Fatal("expected a next reminder for weekly recurrence")
	}
	if !next.RemindAt.Equal(base.AddDate(0, 0, 7)) {
		t.Errorf("next RemindAt = %v, want %v", next.RemindAt, base.AddDate(0, 0, 7))
	}
	if next.Status != ReminderStatusPending {
		t.Errorf("next status = %s, want pending", next.Status)
	}
	if next.Title != r.Title || next.Note != r.Note || next.Priority != r.Priority {
		t.Error("next reminder should preserve title, note and priority")
	}
	if next.FileID != r.FileID || next.UserID != r.UserID || next.OrgID != r.OrgID {
		t.Error("next reminder should keep the same file, user and organization")
	}
}

// TestNextReminderRecurrenceEnd tests the recurrence cutoff date
func TestNextReminderRecurrenceEnd(t *testing.T) {
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	// next occurrence falls past the end date
	end := base.AddDate(0, 0, 3)
	r := &Reminder{RemindAt: base, Recurrence: RecurrenceWeekly, RecurrenceEnd: &end}
	if next := r.NextReminder(); next != nil {
		t.Errorf("expected nil past recurrence end, got %v", next.RemindAt)
	}

	// next occurrence exactly on the end date is still allowed
	endOn := base.AddDate(0, 0, 7)
	r = &Reminder{RemindAt: base, Recurrence: RecurrenceWeekly, RecurrenceEnd: &endOn}
	if next := r.NextReminder(); next == nil {
		t.Error("expected a reminder landing exactly on the end date")
	}

	// non-recurring never spawns
	r = &Reminder{RemindAt: base, Recurrence: RecurrenceNone}
	if next := r.NextReminder(); next != nil {
		t.Error("non-recurring reminder should not spawn a follow-up")
	}
}

// TestRecurrencePatternValid tests pattern validation
func TestRecurrencePatternValid(t *testing.T) {
	valid := []RecurrencePattern{RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly}
	for _, p := range valid {
		if !p.Valid() {
			t.Errorf("pattern %q should be valid", p)
		}
	}
	if RecurrencePattern("hourly").Valid() {
		t.Error("pattern \"hourly\" should be invalid")
	}
}

// TestQuotaBytes tests MB to byte conversion
func TestQuotaBytes(t *testing.T) {
	if got := QuotaBytes(1); got != 1048576 {
		t.Errorf("QuotaBytes(1) = %d, want 1048576", got)
	}
	if got := QuotaBytes(1024); got != 1073741824 {
		t.Errorf("QuotaBytes(1024) = %d, want 1073741824", got)
	}
}
