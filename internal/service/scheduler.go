package service

import (
	"log"
	"time"

	"storage-server/internal/model"
	"storage-server/internal/pkg/utils"
)

// SchedulerService 定时任务服务
type SchedulerService struct {
	emailService *EmailService
}

// NewSchedulerService 创建定时任务服务
func NewSchedulerService() *SchedulerService {
	return &SchedulerService{
		emailService: NewEmailService(),
	}
}

// Start 启动定时任务
func (s *SchedulerService) Start() {
	// 每分钟检查到期提醒
	go s.runEvery(time.Minute, s.CheckDueReminders)

	// 每天凌晨 3 点清理过期通知
	go s.runDaily(3, 0, s.CleanupOldNotifications)

	log.Println("定时任务服务已启动")
}

// runEvery 按固定间隔执行
func (s *SchedulerService) runEvery(interval time.Duration, task func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		task()
	}
}

// runDaily 每天定时执行
func (s *SchedulerService) runDaily(hour, minute int, task func()) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if next.Before(now) {
			next = next.Add(24 * time.Hour)
		}
		time.Sleep(next.Sub(now))
		task()
	}
}

// CheckDueReminders 扫描到期的待处理提醒，标记为已通知并生成通知
func (s *SchedulerService) CheckDueReminders() {
	var reminders []model.Reminder
	if err := model.DB.Preload("File").
		Where("status = ? AND remind_at <= ?", model.ReminderStatusPending, time.Now()).
		Find(&reminders).Error; err != nil {
		log.Printf("[scheduler] 查询到期提醒失败: %v", err)
		return
	}

	for i := range reminders {
		s.notifyReminder(&reminders[i])
	}
}

func (s *SchedulerService) notifyReminder(r *model.Reminder) {
	// 先更新状态，避免下一轮重复通知
	if err := model.DB.Model(r).Update("status", model.ReminderStatusNotified).Error; err != nil {
		log.Printf("[scheduler] 更新提醒状态失败 %s: %v", r.ID, err)
		return
	}

	fileName := ""
	if r.File != nil {
		fileName = r.File.Name
	}

	notification := model.Notification{
		UserID:  r.UserID,
		OrgID:   r.OrgID,
		Type:    "reminder",
		Title:   r.Title,
		Content: r.Note,
	}
	if err := model.DB.Create(&notification).Error; err != nil {
		log.Printf("[scheduler] 创建通知失败 %s: %v", r.ID, err)
	}

	// 邮件通知尽力而为
	var user model.User
	if err := model.DB.First(&user, "id = ?", r.UserID).Error; err != nil {
		return
	}
	data := ReminderMailData{
		UserName: user.FullName(),
		Title:    r.Title,
		Note:     r.Note,
		FileName: fileName,
		RemindAt: r.RemindAt.Format("2006-01-02 15:04"),
	}
	if err := s.emailService.SendReminderNotification(user.Email, data); err == nil {
		log.Printf("[scheduler] 已发送提醒邮件: %s -> %s", r.ID, utils.MaskEmail(user.Email))
	}
}

// CleanupOldNotifications 清理 90 天前的已读通知
func (s *SchedulerService) CleanupOldNotifications() {
	cutoff := time.Now().AddDate(0, 0, -90)
	result := model.DB.Where("is_read = ? AND created_at < ?", true, cutoff).Delete(&model.Notification{})
	log.Printf("[scheduler] 清理通知: %d 条", result.RowsAffected)
}
