package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPProvider sends mail through gomail.
type SMTPProvider struct {
	config   *Config
	dialer   *gomail.Dialer
	renderer TemplateRenderer
}

func NewSMTPProvider(config *Config, renderer TemplateRenderer) *SMTPProvider {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	return &SMTPProvider{
		config:   config,
		dialer:   dialer,
		renderer: renderer,
	}
}

func (p *SMTPProvider) Send(msg *Message) error {
	if p.config.Host == "" {
		return fmt.Errorf("smtp host is not configured")
	}

	m := gomail.NewMessage()
	from := msg.From
	if from == "" {
		from = p.config.FromEmail
	}
	if p.config.FromName != "" {
		m.SetAddressHeader("From", from, p.config.FromName)
	} else {
		m.SetHeader("From", from)
	}
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)

	if msg.HTMLBody != "" {
		m.SetBody("text/html", msg.HTMLBody)
		if msg.Body != "" {
			m.AddAlternative("text/plain", msg.Body)
		}
	} else {
		m.SetBody("text/plain", msg.Body)
	}

	return p.dialer.DialAndSend(m)
}

func (p *SMTPProvider) SendVerification(to, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", p.config.BaseURL, token)

	html, err := p.renderer.Render("verification", TemplateData{
		"Title":    "Confirm your email",
		"Body":     "Welcome! Please confirm your email address to activate your account.",
		"Link":     link,
		"LinkText": "Confirm email",
	})
	if err != nil {
		return err
	}

	return p.Send(&Message{
		To:       []string{to},
		Subject:  "Confirm your email",
		Body:     "Confirm your email: " + link,
		HTMLBody: html,
	})
}

func (p *SMTPProvider) SendPasswordReset(to, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", p.config.BaseURL, token)

	html, err := p.renderer.Render("password_reset", TemplateData{
		"Title":    "Reset your password",
		"Body":     "We received a request to reset your password. The link expires in one hour.",
		"Link":     link,
		"LinkText": "Reset password",
	})
	if err != nil {
		return err
	}

	return p.Send(&Message{
		To:       []string{to},
		Subject:  "Reset your password",
		Body:     "Reset your password: " + link,
		HTMLBody: html,
	})
}

func (p *SMTPProvider) Close() error {
	return nil
}
