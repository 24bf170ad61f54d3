// Package mailer отправляет служебные письма (коды подтверждения email).
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// SSL неявный TLS (обычно порт 465). Иначе используется STARTTLS, если сервер его поддерживает.
	SSL bool
}

var ErrNotConfigured = errors.New("smtp is not configured")

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPMailer struct {
	from   string
	dialer dialer
}

func NewSMTPMailer(conf SMTPConfig) (*SMTPMailer, error) {
	if conf.Host == "" || conf.Port == 0 || conf.From == "" {
		return nil, ErrNotConfigured
	}

	d := gomail.NewDialer(conf.Host, conf.Port, conf.Username, conf.Password)
	d.SSL = conf.SSL
	d.TLSConfig = &tls.Config{ServerName: conf.Host, MinVersion: tls.VersionTLS12}

	return &SMTPMailer{from: conf.From, dialer: d}, nil
}

// Send отправляет текстовое письмо. Отправка gomail не принимает контекст, поэтому отмена проверяется
// только перед соединением.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer пишет письма в лог вместо отправки. Используется в разработке.
type LogMailer struct {
	l *logrus.Entry
}

func NewLogMailer(l *logrus.Logger) *LogMailer {
	return &LogMailer{l: l.WithFields(logrus.Fields{
		"component": "mailer",
		"module":    "log",
	})}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.l.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info(body)
	return nil
}
