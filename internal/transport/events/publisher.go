// Package events публикует уведомления пользователей во внешнюю шину событий.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// NATSPublisher публикует сообщения в NATS. Publish возвращает управление только после того,
// как сервер подтвердил получение (flush), иначе уведомление не будет считаться отправленным.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(conn *nats.Conn) (*NATSPublisher, error) {
	if conn == nil {
		return nil, ErrNotConnected
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message for %s: %w", subject, err)
	}

	if p.conn.IsReconnecting() {
		return NewTemporaryError(reconnectWait, nats.ErrConnectionReconnecting)
	}
	if !p.conn.IsConnected() {
		return ErrNotConnected
	}

	if err = p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	if err = p.conn.FlushWithContext(ctx); err != nil {
		return NewTemporaryError(reconnectWait, err)
	}
	return nil
}

// LogPublisher пишет сообщения в лог. Используется, когда шина событий не настроена.
type LogPublisher struct {
	l *logrus.Entry
}

func NewLogPublisher(l *logrus.Logger) *LogPublisher {
	return &LogPublisher{l: l.WithFields(logrus.Fields{
		"component": "events",
		"module":    "log",
	})}
}

func (p *LogPublisher) Publish(_ context.Context, subject string, message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message for %s: %w", subject, err)
	}
	p.l.WithField("subject", subject).Info(string(data))
	return nil
}
