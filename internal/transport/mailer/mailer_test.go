package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSMTPMailer_Send(t *testing.T) {
	d := &fakeDialer{}
	m := &SMTPMailer{from: "noreply@docswap.test", dialer: d}
	to := gofakeit.Email()

	require.NoError(t, m.Send(t.Context(), to, "Verify", "code 123456"))
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{to}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"noreply@docswap.test"}, d.sent[0].GetHeader("From"))

	var buf bytes.Buffer
	_, err := d.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "code 123456")
}

func TestSMTPMailer_Errors(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}
	m := &SMTPMailer{from: "noreply@docswap.test", dialer: d}

	err := m.Send(t.Context(), gofakeit.Email(), "Verify", "code")
	require.ErrorIs(t, err, d.err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	require.ErrorIs(t, m.Send(ctx, gofakeit.Email(), "Verify", "code"), context.Canceled)
}

func TestNewSMTPMailer_NotConfigured(t *testing.T) {
	_, err := NewSMTPMailer(SMTPConfig{Host: "smtp.test"})
	require.ErrorIs(t, err, ErrNotConfigured)

	m, err := NewSMTPMailer(SMTPConfig{Host: "smtp.test", Port: 587, From: "noreply@docswap.test"})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)

	require.NoError(t, NewLogMailer(l).Send(t.Context(), "user@docswap.test", "Verify", "code 654321"))
	assert.True(t, strings.Contains(buf.String(), "code 654321"))
}
