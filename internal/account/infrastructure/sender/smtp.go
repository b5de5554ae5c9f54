package sender

import (
	"context"
	"fmt"
	"net/smtp"
	"sync"

	"github.com/wyfcoding/videorating/internal/account/domain"
)

// SMTPSender 通过 SMTP 服务器发送邮件
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

// Config SMTP 配置
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewSMTPSender 创建 SMTP 发送器
func NewSMTPSender(cfg Config) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.from, to, subject, body)
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg))
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RecordedMail 记录的已发送邮件
type RecordedMail struct {
	To      string
	Subject string
	Body    string
}

// RecorderSender 只记录不发送，供测试与本地环境使用
type RecorderSender struct {
	mu    sync.Mutex
	mails []RecordedMail
}

// NewRecorderSender 创建记录型发送器
func NewRecorderSender() *RecorderSender {
	return &RecorderSender{}
}

func (s *RecorderSender) Send(ctx context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mails = append(s.mails, RecordedMail{To: to, Subject: subject, Body: body})
	return nil
}

// Mails 返回已记录邮件的副本
func (s *RecorderSender) Mails() []RecordedMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedMail, len(s.mails))
	copy(out, s.mails)
	return out
}

var (
	_ domain.EmailSender = (*SMTPSender)(nil)
	_ domain.EmailSender = (*RecorderSender)(nil)
)
