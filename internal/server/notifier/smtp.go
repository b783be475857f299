package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPNotifier sends the verification email over plain STARTTLS SMTP.
type SMTPNotifier struct {
	host     string
	port     int
	username string
	password string
}

func NewSMTPNotifier(host string, port int, username, password string) *SMTPNotifier {
	return &SMTPNotifier{host: host, port: port, username: username, password: password}
}

func (n *SMTPNotifier) Send(ctx context.Context, email, code string) error {
	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	auth := smtp.PlainAuth("", n.username, n.password, n.host)

	msg := strings.Join([]string{
		"From: " + n.username,
		"To: " + email,
		"Subject: Verify Your Email - Fashion Guide Chat",
		"",
		"Hello!",
		"",
		"Thank you for registering with Fashion Guide Chat.",
		"",
		"Your verification code is: " + code,
		"",
		"This code will expire in 15 minutes.",
		"",
		"If you didn't request this, please ignore this email.",
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, n.username, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}
	return nil
}
