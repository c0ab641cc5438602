package mailing

import (
	"fmt"
	"html"
	"strconv"

	"recipe-organizer/internal/utils"

	"gopkg.in/gomail.v2"
)

type (
	Mailer interface {
		SendMail(toEmail string, subject string, body string) error
	}

	MailConfig struct {
		AppURL       string
		SMTPHost     string
		SMTPPort     string
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	smtpMailer struct {
		cfg MailConfig
	}
)

func LoadMailConfig(cfg *utils.Config) MailConfig {
	return MailConfig{
		AppURL:       cfg.AppURL,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPSender:   cfg.SMTPSenderName,
		SMTPEmail:    cfg.SMTPAuthEmail,
		SMTPPassword: cfg.SMTPAuthPassword,
	}
}

// NewMailer returns nil when SMTP is not configured; callers treat a nil
// Mailer as "mail disabled".
func NewMailer(cfg *utils.Config) Mailer {
	if !cfg.MailEnabled() {
		return nil
	}
	return &smtpMailer{cfg: LoadMailConfig(cfg)}
}

func (m *smtpMailer) SendMail(toEmail string, subject string, body string) error {
	mailer := gomail.NewMessage()
	if m.cfg.SMTPSender != "" {
		mailer.SetAddressHeader("From", m.cfg.SMTPEmail, m.cfg.SMTPSender)
	} else {
		mailer.SetHeader("From", m.cfg.SMTPEmail)
	}
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(m.cfg.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		m.cfg.SMTPHost,
		port,
		m.cfg.SMTPEmail,
		m.cfg.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

// WelcomeMail builds the HTML welcome message. name and appURL are escaped.
func WelcomeMail(name, appURL string) (string, string) {
	subject := "Welcome to Recipe Organizer"
	name, appURL = html.EscapeString(name), html.EscapeString(appURL)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your account is ready. Start collecting recipes at <a href=\"%s\">%s</a>.</p>",
		name, appURL, appURL,
	)
	return subject, body
}
