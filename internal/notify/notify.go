// Package notify emails contact form submissions to the site owner.
package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/model"
)

// Notifier is what the contact handler needs.
type Notifier interface {
	Send(m *model.Message) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends contact notifications over SMTP with PLAIN auth.
type Mailer struct {
	cfg      config.SMTP
	sendMail sendFunc
}

func NewMailer(cfg config.SMTP) *Mailer {
	return &Mailer{cfg: cfg, sendMail: smtp.SendMail}
}

// Enabled reports whether Send will try to deliver mail.
func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled() && m.recipient() != ""
}

func (m *Mailer) recipient() string {
	if m.cfg.ToEmail != "" {
		return m.cfg.ToEmail
	}
	return m.cfg.User
}

// Send emails msg to the configured recipient with Reply-To set to the
// sender. Without SMTP credentials it only logs.
func (m *Mailer) Send(msg *model.Message) error {
	if !m.Enabled() {
		log.Printf("SMTP not configured, skipping email for message %s", msg.ID)
		return nil
	}
	to := m.recipient()

	subject := fmt.Sprintf("Portfolio Contact: %s", oneLine(msg.Name))
	if msg.Subject != nil {
		subject += " - " + oneLine(*msg.Subject)
	}
	consult := "no"
	if msg.WantsConsult {
		consult = "yes"
	}
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Wants a consult: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, consult, msg.Message)

	raw := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.cfg.User + "\r\n" +
		"Reply-To: " + oneLine(msg.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := m.sendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{to}, raw); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	log.Printf("Contact email sent for message %s", msg.ID)
	return nil
}

// oneLine strips CR and LF so user input cannot inject headers.
func oneLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
