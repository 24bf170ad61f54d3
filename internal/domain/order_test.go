package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testBuyer  int64 = 5
	testSeller int64 = 1
)

func newTestOrder(status OrderStatus) *Order {
	return &Order{ID: 100, BuyerID: testBuyer, SellerID: testSeller, Status: status}
}

func TestOrderApply_FullLifecycle(t *testing.T) {
	order := newTestOrder(OrderStatusPendingSellerConfirmation)

	steps := []struct {
		action    OrderAction
		actor     int64
		to        OrderStatus
		recipient int64
		template  NotificationTemplate
	}{
		{OrderActionAccept, testSeller, OrderStatusConfirmedBySeller, testBuyer, NotificationOrderAccepted},
		{OrderActionRequestPayment, testBuyer, OrderStatusAwaitingOfflinePayment, testSeller, NotificationPaymentRequested},
		{OrderActionConfirmPayment, testBuyer, OrderStatusPaymentConfirmed, testSeller, NotificationPaymentConfirmed},
		{OrderActionPrepareShipment, testSeller, OrderStatusPendingShipment, testBuyer, NotificationShipmentPending},
		{OrderActionShip, testSeller, OrderStatusShipped, testBuyer, NotificationOrderShipped},
		{OrderActionDeliver, testBuyer, OrderStatusDelivered, testSeller, NotificationOrderDelivered},
		{OrderActionComplete, testBuyer, OrderStatusCompleted, testSeller, NotificationOrderCompleted},
	}

	for _, step := range steps {
		from := order.Status
		tr, err := order.Apply(step.action, step.actor, "")
		require.NoError(t, err, step.action)
		assert.Equal(t, from, tr.From)
		assert.Equal(t, step.to, tr.To)
		assert.Equal(t, step.to, order.Status)
		assert.Equal(t, step.recipient, tr.Recipient)
		assert.Equal(t, step.template, tr.Template)
	}
	assert.True(t, order.Status.IsTerminal())

	// из терминального статуса переходов нет.
	for _, action := range OrderActions() {
		actor := testBuyer
		if orderTransitions[action].actor == OrderPartySeller {
			actor = testSeller
		}
		_, err := order.Apply(action, actor, "reason")
		require.ErrorIs(t, err, ErrInvalidTransition, action)
	}
}

func TestOrderApply_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  OrderStatus
		action  OrderAction
		actor   int64
		reason  string
		wantErr error
	}{
		{"buyer accepts", OrderStatusPendingSellerConfirmation, OrderActionAccept, testBuyer, "", ErrForbidden},
		{"seller cancels", OrderStatusConfirmedBySeller, OrderActionCancel, testSeller, "", ErrForbidden},
		{"stranger ships", OrderStatusPendingShipment, OrderActionShip, 42, "", ErrForbidden},
		{"ship before payment", OrderStatusConfirmedBySeller, OrderActionShip, testSeller, "", ErrInvalidTransition},
		{"cancel after payment", OrderStatusPaymentConfirmed, OrderActionCancel, testBuyer, "", ErrInvalidTransition},
		{"complete before delivery", OrderStatusShipped, OrderActionComplete, testBuyer, "", ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := newTestOrder(tt.status)
			_, err := order.Apply(tt.action, tt.actor, tt.reason)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.status, order.Status, "status must not change on error")
		})
	}
}

func TestOrderApply_Reject(t *testing.T) {
	order := newTestOrder(OrderStatusPendingSellerConfirmation)

	_, err := order.Apply(OrderActionReject, testSeller, "   ")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "reason")

	tr, err := order.Apply(OrderActionReject, testSeller, " damaged copy ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusRejectedBySeller, order.Status)
	assert.Equal(t, "damaged copy", order.Reason)
	assert.True(t, tr.To.RestoresStock())
}

func TestOrderApply_UnknownAction(t *testing.T) {
	order := newTestOrder(OrderStatusPendingSellerConfirmation)
	_, err := order.Apply(OrderAction("refund"), testBuyer, "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestOrderTransitionsCoverRegistry(t *testing.T) {
	reachable := map[OrderStatus]bool{OrderStatusPendingSellerConfirmation: true}
	for _, action := range OrderActions() {
		tr := orderTransitions[action]
		reachable[tr.to] = true
		assert.NotEmpty(t, tr.template, action)
		for _, from := range tr.from {
			assert.False(t, from.IsTerminal(), "%s starts from terminal %s", action, from)
		}
	}
	for _, code := range RegisteredStatusCodes(StatusDomainOrder) {
		assert.True(t, reachable[OrderStatus(code)], "status %s is unreachable", code)
	}
}

func TestOpenOrderStatuses(t *testing.T) {
	open := OpenOrderStatuses()
	assert.Len(t, open, len(RegisteredStatusCodes(StatusDomainOrder))-3)
	assert.NotContains(t, open, OrderStatusCompleted)
	assert.NotContains(t, open, OrderStatusCancelledByBuyer)
	assert.NotContains(t, open, OrderStatusRejectedBySeller)
}

func TestRecalculateTotal(t *testing.T) {
	order := &Order{
		TotalAmount: decimal.NewFromInt(1),
		Details: []OrderDetail{
			{Quantity: 2, Price: decimal.RequireFromString("10.00"), Amount: decimal.NewFromInt(999)},
			{Quantity: 1, Price: decimal.RequireFromString("5.50")},
			{Quantity: 3, Price: decimal.RequireFromString("0.10")},
		},
	}
	order.RecalculateTotal()

	assert.True(t, order.Details[0].Amount.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("25.80")), order.TotalAmount.String())
}

func TestNewOrderDetail(t *testing.T) {
	listing := &Listing{ID: 11, DocumentID: 21, Price: decimal.RequireFromString("3.33")}
	d := NewOrderDetail(listing, 3)

	assert.Equal(t, int64(11), d.ListingID)
	assert.Equal(t, int64(21), d.DocumentID)
	assert.True(t, d.Amount.Equal(decimal.RequireFromString("9.99")))
}
