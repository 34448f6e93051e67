package service

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"storage-server/internal/config"
)

// EmailService 邮件服务
type EmailService struct {
	enabled  bool
	host     string
	port     int
	username string
	password string
	from     string
}

// NewEmailService 创建邮件服务
func NewEmailService() *EmailService {
	cfg := config.Get()
	return &EmailService{
		enabled:  cfg.Email.Enabled,
		host:     cfg.Email.SMTPHost,
		port:     cfg.Email.SMTPPort,
		username: cfg.Email.Username,
		password: cfg.Email.Password,
		from:     cfg.Email.From,
	}
}

// SendEmail 发送邮件
func (s *EmailService) SendEmail(to, subject, body string) error {
	if !s.enabled || s.host == "" {
		return fmt.Errorf("邮件服务未配置")
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg))
}

// ReminderMailData 提醒邮件模板数据
type ReminderMailData struct {
	UserName string
	Title    string
	Note     string
	FileName string
	RemindAt string
}

// SendReminderNotification 发送提醒到期邮件
func (s *EmailService) SendReminderNotification(to string, data ReminderMailData) error {
	tmpl, err := template.New("reminder").Parse(reminderTemplate)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return err
	}

	subject := fmt.Sprintf("文件提醒: %s", data.Title)
	return s.SendEmail(to, subject, body.String())
}

// 邮件模板
const reminderTemplate = `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
    <p>{{.UserName}}，您好：</p>
    <p>您为文件 <b>{{.FileName}}</b> 设置的提醒已到期。</p>
    <p>标题：{{.Title}}</p>
    {{if .Note}}<p>备注：{{.Note}}</p>{{end}}
    <p>提醒时间：{{.RemindAt}}</p>
</body>
</html>
`
