package service

import (
	"fmt"

	"myfinances/config"

	"gopkg.in/gomail.v2"
)

// EmailService sends transactional mail.
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService builds the mail service.
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendPasswordResetEmail sends the reset link to the user.
func (s *EmailService) SendPasswordResetEmail(toEmail, username, resetLink string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("email service disabled, set email.enabled in config")
	}

	subject := "MyFinances password reset"
	body := s.resetEmailBody(username, resetLink)

	return s.sendEmail(toEmail, subject, body)
}

func (s *EmailService) resetEmailBody(username, resetLink string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; background: #f5f5f5; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background: #fff; border-radius: 8px; padding: 30px;">
    <h2 style="color: #2563eb;">MyFinances</h2>
    <p>Hello %s,</p>
    <p>We received a request to reset your password. Click the button below
    to choose a new one. The link expires in 30 minutes.</p>
    <p style="margin: 24px 0;">
      <a href="%s" style="background: #2563eb; color: #fff; padding: 12px 32px; border-radius: 6px; text-decoration: none;">Reset password</a>
    </p>
    <p style="color: #6c757d; font-size: 12px;">If you did not request this,
    you can safely ignore this mail; your password stays unchanged.</p>
  </div>
</body>
</html>`, username, resetLink)
}

func (s *EmailService) sendEmail(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
