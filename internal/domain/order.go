package domain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderParty string

const (
	OrderPartyBuyer  OrderParty = "buyer"
	OrderPartySeller OrderParty = "seller"
)

type OrderAction string

const (
	OrderActionAccept          OrderAction = "accept"
	OrderActionReject          OrderAction = "reject"
	OrderActionCancel          OrderAction = "cancel"
	OrderActionRequestPayment  OrderAction = "request-payment"
	OrderActionConfirmPayment  OrderAction = "confirm-payment"
	OrderActionPrepareShipment OrderAction = "prepare-shipment"
	OrderActionShip            OrderAction = "ship"
	OrderActionDeliver         OrderAction = "deliver"
	OrderActionComplete        OrderAction = "complete"
)

type orderTransition struct {
	from     []OrderStatus
	to       OrderStatus
	actor    OrderParty
	template NotificationTemplate
}

var orderTransitions = map[OrderAction]orderTransition{
	OrderActionAccept: {
		from:     []OrderStatus{OrderStatusPendingSellerConfirmation},
		to:       OrderStatusConfirmedBySeller,
		actor:    OrderPartySeller,
		template: NotificationOrderAccepted,
	},
	OrderActionReject: {
		from:     []OrderStatus{OrderStatusPendingSellerConfirmation},
		to:       OrderStatusRejectedBySeller,
		actor:    OrderPartySeller,
		template: NotificationOrderRejected,
	},
	OrderActionCancel: {
		from: []OrderStatus{
			OrderStatusPendingSellerConfirmation,
			OrderStatusConfirmedBySeller,
			OrderStatusAwaitingOfflinePayment,
		},
		to:       OrderStatusCancelledByBuyer,
		actor:    OrderPartyBuyer,
		template: NotificationOrderCancelled,
	},
	OrderActionRequestPayment: {
		from:     []OrderStatus{OrderStatusConfirmedBySeller},
		to:       OrderStatusAwaitingOfflinePayment,
		actor:    OrderPartyBuyer,
		template: NotificationPaymentRequested,
	},
	OrderActionConfirmPayment: {
		from:     []OrderStatus{OrderStatusAwaitingOfflinePayment},
		to:       OrderStatusPaymentConfirmed,
		actor:    OrderPartyBuyer,
		template: NotificationPaymentConfirmed,
	},
	OrderActionPrepareShipment: {
		from:     []OrderStatus{OrderStatusPaymentConfirmed},
		to:       OrderStatusPendingShipment,
		actor:    OrderPartySeller,
		template: NotificationShipmentPending,
	},
	OrderActionShip: {
		from:     []OrderStatus{OrderStatusPendingShipment},
		to:       OrderStatusShipped,
		actor:    OrderPartySeller,
		template: NotificationOrderShipped,
	},
	OrderActionDeliver: {
		from:     []OrderStatus{OrderStatusShipped},
		to:       OrderStatusDelivered,
		actor:    OrderPartyBuyer,
		template: NotificationOrderDelivered,
	},
	OrderActionComplete: {
		from:     []OrderStatus{OrderStatusDelivered},
		to:       OrderStatusCompleted,
		actor:    OrderPartyBuyer,
		template: NotificationOrderCompleted,
	},
}

func (a OrderAction) IsValid() bool {
	_, ok := orderTransitions[a]
	return ok
}

// OrderActions возвращает действия в порядке жизненного цикла заказа.
func OrderActions() []OrderAction {
	return []OrderAction{
		OrderActionAccept,
		OrderActionReject,
		OrderActionCancel,
		OrderActionRequestPayment,
		OrderActionConfirmPayment,
		OrderActionPrepareShipment,
		OrderActionShip,
		OrderActionDeliver,
		OrderActionComplete,
	}
}

func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelledByBuyer, OrderStatusRejectedBySeller:
		return true
	}
	return false
}

// RestoresStock сообщает, возвращается ли количество позиций заказа в объявления при переходе в статус s.
func (s OrderStatus) RestoresStock() bool {
	return s == OrderStatusCancelledByBuyer || s == OrderStatusRejectedBySeller
}

// OpenOrderStatuses статусы незавершенных заказов.
func OpenOrderStatuses() []OrderStatus {
	res := make([]OrderStatus, 0, len(statusRegistry[StatusDomainOrder]))
	for _, code := range statusRegistry[StatusDomainOrder] {
		if s := OrderStatus(code); !s.IsTerminal() {
			res = append(res, s)
		}
	}
	return res
}

// OrderTransition результат успешного перехода заказа.
type OrderTransition struct {
	Action    OrderAction
	From      OrderStatus
	To        OrderStatus
	Recipient int64
	Template  NotificationTemplate
}

func (o *Order) PartyOf(userID int64) (OrderParty, bool) {
	switch userID {
	case o.BuyerID:
		return OrderPartyBuyer, true
	case o.SellerID:
		return OrderPartySeller, true
	}
	return "", false
}

// Apply применяет действие action от имени пользователя actorID. Проверки выполняются в порядке:
// известность действия, роль участника, допустимость исходного статуса, обязательная причина отклонения.
func (o *Order) Apply(action OrderAction, actorID int64, reason string) (*OrderTransition, error) {
	t, ok := orderTransitions[action]
	if !ok {
		return nil, NewValidationError("action", fmt.Sprintf("unknown order action %q", action))
	}
	party, ok := o.PartyOf(actorID)
	if !ok || party != t.actor {
		return nil, fmt.Errorf("%w: only the %s can %s the order", ErrForbidden, t.actor, action)
	}
	if !slices.Contains(t.from, o.Status) {
		return nil, NewInvalidTransitionError(StatusDomainOrder, string(o.Status), string(t.to))
	}
	reason = strings.TrimSpace(reason)
	if action == OrderActionReject && reason == "" {
		return nil, NewValidationError("reason", "reason is required")
	}

	res := &OrderTransition{
		Action:    action,
		From:      o.Status,
		To:        t.to,
		Recipient: o.BuyerID,
		Template:  t.template,
	}
	if party == OrderPartyBuyer {
		res.Recipient = o.SellerID
	}

	o.Status = t.to
	if reason != "" {
		o.Reason = reason
	}
	return res, nil
}

func NewOrderDetail(listing *Listing, quantity int) OrderDetail {
	d := OrderDetail{
		ListingID:  listing.ID,
		DocumentID: listing.DocumentID,
		Quantity:   quantity,
		Price:      listing.Price,
	}
	d.RecalculateAmount()
	return d
}

func (d *OrderDetail) RecalculateAmount() {
	d.Amount = d.Price.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// RecalculateTotal пересчитывает суммы позиций и итоговую сумму заказа. Значения, пришедшие от клиента,
// не используются.
func (o *Order) RecalculateTotal() {
	total := decimal.Zero
	for i := range o.Details {
		o.Details[i].RecalculateAmount()
		total = total.Add(o.Details[i].Amount)
	}
	o.TotalAmount = total
}
