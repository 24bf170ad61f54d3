package events

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

const (
	connectWait   = 5 * time.Second
	reconnectWait = 2 * time.Second
	// maxReconnects -1 переподключаемся бесконечно, события копятся в БД до восстановления связи.
	maxReconnects = -1
)

// Connect подключается к NATS. Состояние соединения пишется в лог.
func Connect(url string, l *logrus.Logger) (*nats.Conn, error) {
	entry := l.WithFields(logrus.Fields{
		"component": "events",
		"module":    "nats",
	})

	nc, err := nats.Connect(url,
		nats.Name("docswap notifications"),
		nats.Timeout(connectWait),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			entry.WithError(err).Warn("disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			entry.WithField("url", nc.ConnectedUrlRedacted()).Info("reconnected")
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			entry.Info("connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}
	return nc, nil
}
