package model

import (
	"time"
)

// Reminder 文件提醒。支持可选的重复规则
type Reminder struct {
	BaseModel
	FileID   string           `gorm:"type:varchar(36);not null;index" json:"file_id"`
	UserID   string           `gorm:"type:varchar(36);not null;index" json:"user_id"`
	OrgID    string           `gorm:"type:varchar(36);not null;index" json:"org_id"`
	Title    string           `gorm:"type:varchar(200);not null" json:"title"`
	Note     string           `gorm:"type:text" json:"note"`
	Priority ReminderPriority `gorm:"type:varchar(20);default:medium" json:"priority"`
	RemindAt time.Time        `gorm:"not null;index" json:"remind_at"`
	Status   ReminderStatus   `gorm:"type:varchar(20);default:pending;index" json:"status"`
	// 重复规则
	Recurrence    RecurrencePattern `gorm:"type:varchar(20)" json:"recurrence"` // 空表示不重复
	RecurrenceEnd *time.Time        `json:"recurrence_end"`
	// 关联
	File *File `gorm:"foreignKey:FileID" json:"file,omitempty"`
}

type ReminderStatus string

const (
	ReminderStatusPending   ReminderStatus = "pending"
	ReminderStatusNotified  ReminderStatus = "notified"
	ReminderStatusCompleted ReminderStatus = "completed"
	ReminderStatusDismissed ReminderStatus = "dismissed"
)

type ReminderPriority string

const (
	PriorityLow    ReminderPriority = "low"
	PriorityMedium ReminderPriority = "medium"
	PriorityHigh   ReminderPriority = "high"
)

type RecurrencePattern string

const (
	RecurrenceNone    RecurrencePattern = ""
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
	RecurrenceYearly  RecurrencePattern = "yearly"
)

// Valid 重复规则是否合法
func (p RecurrencePattern) Valid() bool {
	switch p {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

func (Reminder) TableName() string {
	return "reminders"
}

// NextOccurrence 按重复规则计算下一次提醒时间。不重复时返回零值
func (r *Reminder) NextOccurrence() time.Time {
	switch r.Recurrence {
	case RecurrenceDaily:
		return r.RemindAt.AddDate(0, 0, 1)
	case RecurrenceWeekly:
		return r.RemindAt.AddDate(0, 0, 7)
	case RecurrenceMonthly:
		return r.RemindAt.AddDate(0, 1, 0)
	case RecurrenceYearly:
		return r.RemindAt.AddDate(1, 0, 0)
	}
	return time.Time{}
}

// NextReminder 生成下一次的待处理提醒，保留标题、备注和优先级。
// 不重复或超过结束日期时返回 nil
func (r *Reminder) NextReminder() *Reminder {
	next := r.NextOccurrence()
	if next.IsZero() {
		return nil
	}
	if r.RecurrenceEnd != nil && next.After(*r.RecurrenceEnd) {
		return nil
	}
	return &Reminder{
		FileID:        r.FileID,
		UserID:        r.UserID,
		OrgID:         r.OrgID,
		Title:         r.Title,
		Note:          r.Note,
		Priority:      r.Priority,
		RemindAt:      next,
		Status:        ReminderStatusPending,
		Recurrence:    r.Recurrence,
		RecurrenceEnd: r.RecurrenceEnd,
	}
}

// Notification 通知模型，提醒到期时生成
type Notification struct {
	BaseModel
	UserID  string `gorm:"type:varchar(36);index" json:"user_id"`
	OrgID   string `gorm:"type:varchar(36);index" json:"org_id"`
	Type    string `gorm:"type:varchar(50);not null" json:"type"`
	Title   string `gorm:"type:varchar(200);not null" json:"title"`
	Content string `gorm:"type:text" json:"content"`
	IsRead  bool   `gorm:"default:false" json:"is_read"`
}

func (Notification) TableName() string {
	return "notifications"
}
