package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"yatube/internal/config"
	"yatube/internal/logging"
	"yatube/web"

	"github.com/pkg/errors"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool

	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailService(cfg *config.Config) *MailService {
	enabled := cfg.SMTPEnabled()
	if !enabled {
		logging.Log.Warn("MailService disabled: missing SMTP settings, reset links will be logged instead")
	}
	return &MailService{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
		Enabled:  enabled,
		sendMail: smtp.SendMail,
	}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: Yatube <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		log := logging.Log.WithField("to", to).WithField("subject", subject)
		if err := s.sendMail(addr, auth, s.From, to, msg); err != nil {
			log.WithError(err).Error("Failed to send email")
			return
		}
		log.Info("Email sent")
	}()
}

func (s *MailService) parseTemplate(templateName string, data interface{}) (string, error) {
	t, err := template.ParseFS(web.Templates, "templates/email/"+templateName)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse template %s", templateName)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute template %s", templateName)
	}
	return buf.String(), nil
}

// SendPasswordReset mails the reset link, or logs it when SMTP is not configured.
func (s *MailService) SendPasswordReset(to, username, link string) error {
	if !s.Enabled {
		logging.Log.WithField("to", to).WithField("link", link).Info("Password reset requested (mail disabled)")
		return nil
	}
	body, err := s.parseTemplate("password_reset.html", map[string]string{
		"Username": username,
		"Link":     link,
	})
	if err != nil {
		return err
	}
	s.sendAsync([]string{to}, "Password reset on Yatube", body)
	return nil
}
