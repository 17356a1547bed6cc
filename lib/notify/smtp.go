package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/pkg/errors"
)

type SmtpConfig struct {
	Server   string `json:"server"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SmtpSink mails the report through an SMTP relay.
type SmtpSink struct {
	Config SmtpConfig
	From   string
	To     string
}

func (s SmtpSink) message(report string) *email.Email {
	mail := email.NewEmail()
	mail.From = s.From
	mail.To = []string{s.To}
	mail.Subject = Subject
	mail.Text = []byte(report)
	return mail
}

func (s SmtpSink) Send(ctx context.Context, report string) error {
	mail := s.message(report)
	addr := fmt.Sprintf("%s:%d", s.Config.Server, s.Config.Port)

	var auth smtp.Auth
	if s.Config.Username != "" {
		auth = smtp.PlainAuth("", s.Config.Username, s.Config.Password, s.Config.Server)
	}
	err := mail.Send(addr, auth)
	if err != nil && auth != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		return errors.Wrapf(err, "cannot send report email to %s via %s", s.To, addr)
	}
	return nil
}
