package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"
	"go.uber.org/zap"

	"github.com/ormeet/ormeet-api/internal/config"
)

type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP mailer, or a mailer that only logs when no SMTP host
// is configured.
func New(conf *config.SMTPConfig) Mailer {
	if conf == nil || conf.Host == "" {
		return LogMailer{}
	}

	return NewSMTPMailer(conf)
}

type SMTPMailer struct {
	conf *config.SMTPConfig
}

func NewSMTPMailer(conf *config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		conf: conf,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.conf.Username != "" {
		auth = smtp.PlainAuth("", m.conf.Username, m.conf.Password, m.conf.Host)
	}

	mail := mailyak.New(fmt.Sprintf("%s:%d", m.conf.Host, m.conf.Port), auth)
	mail.To(msg.To)
	mail.From(m.conf.From)
	mail.FromName(m.conf.FromName)
	mail.Subject(msg.Subject)
	mail.HTML().Set(msg.HTML)

	if err := mail.Send(); err != nil {
		return fmt.Errorf("mail.Send -> %w", err)
	}

	return nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	zap.L().Info("email not sent, smtp disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)

	return nil
}
