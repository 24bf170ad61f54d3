package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationEvent(t *testing.T) {
	n := domain.NewNotification(5, domain.NotificationOrderShipped, 100)
	n.ID = 7
	n.CreatedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	event := NewNotificationEvent(*n)
	assert.Equal(t, "notifications.OrderShipped", event.Subject())

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 7,
		"userId": 5,
		"type": "OrderShipped",
		"referenceId": 100,
		"message": "Order #100 has been shipped.",
		"link": "/orders/100",
		"createdAt": "2025-03-01T10:00:00Z"
	}`, string(data))
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	err := NewLogPublisher(l).Publish(t.Context(), "notifications.OrderPlaced", map[string]int{"id": 1})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"subject":"notifications.OrderPlaced"`)
}

func TestTemporaryError(t *testing.T) {
	cause := errors.New("flush timeout")
	err := error(NewTemporaryError(2*time.Second, cause))

	var tmp *TemporaryError
	require.ErrorAs(t, err, &tmp)
	assert.Equal(t, 2*time.Second, tmp.RetryAfter)
	assert.ErrorIs(t, err, cause)
}

func TestNewNATSPublisherRequiresConnection(t *testing.T) {
	_, err := NewNATSPublisher(nil)
	require.ErrorIs(t, err, ErrNotConnected)
}
