package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildNotification(t *testing.T) {
	templates := []NotificationTemplate{
		NotificationOrderPlaced,
		NotificationOrderAccepted,
		NotificationOrderRejected,
		NotificationOrderCancelled,
		NotificationPaymentRequested,
		NotificationPaymentConfirmed,
		NotificationShipmentPending,
		NotificationOrderShipped,
		NotificationOrderDelivered,
		NotificationOrderCompleted,
		NotificationReviewReceived,
		NotificationListingRejected,
	}
	defMsg, defLink := BuildNotification(NotificationTemplate("Unknown"), 7)

	for _, tpl := range templates {
		t.Run(string(tpl), func(t *testing.T) {
			msg, link := BuildNotification(tpl, 7)
			assert.NotEmpty(t, msg)
			assert.NotEqual(t, defMsg, msg, "template must have its own text")
			assert.Contains(t, link, "/7")
		})
	}

	// все шаблоны переходов заказа имеют текст.
	for _, action := range OrderActions() {
		msg, _ := BuildNotification(orderTransitions[action].template, 1)
		assert.NotEqual(t, defMsg, msg, action)
	}

	assert.Equal(t, "/notifications", defLink)
}

func TestBuildNotification_WithoutReference(t *testing.T) {
	_, link := BuildNotification(NotificationOrderPlaced, 0)
	assert.Equal(t, "/notifications", link)

	n := NewNotification(1, NotificationOrderShipped, 0)
	assert.Nil(t, n.ReferenceID)
	assert.Equal(t, NotificationOrderShipped, n.Type)
}
