package domain

import "fmt"

type NotificationTemplate string

const (
	NotificationOrderPlaced      NotificationTemplate = "OrderPlaced"
	NotificationOrderAccepted    NotificationTemplate = "OrderAccepted"
	NotificationOrderRejected    NotificationTemplate = "OrderRejected"
	NotificationOrderCancelled   NotificationTemplate = "OrderCancelled"
	NotificationPaymentRequested NotificationTemplate = "PaymentRequested"
	NotificationPaymentConfirmed NotificationTemplate = "PaymentConfirmed"
	NotificationShipmentPending  NotificationTemplate = "ShipmentPending"
	NotificationOrderShipped     NotificationTemplate = "OrderShipped"
	NotificationOrderDelivered   NotificationTemplate = "OrderDelivered"
	NotificationOrderCompleted   NotificationTemplate = "OrderCompleted"
	NotificationReviewReceived   NotificationTemplate = "ReviewReceived"
	NotificationListingRejected  NotificationTemplate = "ListingRejected"
)

const defaultNotificationLink = "/notifications"

// BuildNotification формирует текст и ссылку уведомления по шаблону. Функция чистая и не возвращает ошибок:
// для неизвестного шаблона используется общий текст. referenceID <= 0 означает отсутствие связанной сущности.
func BuildNotification(t NotificationTemplate, referenceID int64) (string, string) {
	orderLink := link("/orders/%d", referenceID)

	switch t {
	case NotificationOrderPlaced:
		return fmt.Sprintf("You have a new order #%d waiting for confirmation.", referenceID), orderLink
	case NotificationOrderAccepted:
		return fmt.Sprintf("Your order #%d was accepted by the seller.", referenceID), orderLink
	case NotificationOrderRejected:
		return fmt.Sprintf("Your order #%d was rejected by the seller.", referenceID), orderLink
	case NotificationOrderCancelled:
		return fmt.Sprintf("Order #%d was cancelled by the buyer.", referenceID), orderLink
	case NotificationPaymentRequested:
		return fmt.Sprintf("The buyer chose offline payment for order #%d.", referenceID), orderLink
	case NotificationPaymentConfirmed:
		return fmt.Sprintf("Payment for order #%d was confirmed.", referenceID), orderLink
	case NotificationShipmentPending:
		return fmt.Sprintf("Order #%d is being prepared for shipment.", referenceID), orderLink
	case NotificationOrderShipped:
		return fmt.Sprintf("Order #%d has been shipped.", referenceID), orderLink
	case NotificationOrderDelivered:
		return fmt.Sprintf("The buyer confirmed delivery of order #%d.", referenceID), orderLink
	case NotificationOrderCompleted:
		return fmt.Sprintf("Order #%d is completed.", referenceID), orderLink
	case NotificationReviewReceived:
		return "You received a new review.", link("/reviews/%d", referenceID)
	case NotificationListingRejected:
		return fmt.Sprintf("Your listing #%d was rejected by a moderator.", referenceID), link("/listings/%d", referenceID)
	default:
		return "You have a new notification.", defaultNotificationLink
	}
}

func link(format string, referenceID int64) string {
	if referenceID <= 0 {
		return defaultNotificationLink
	}
	return fmt.Sprintf(format, referenceID)
}

// NewNotification собирает уведомление для пользователя userID.
func NewNotification(userID int64, t NotificationTemplate, referenceID int64) *Notification {
	msg, l := BuildNotification(t, referenceID)
	n := &Notification{
		UserID:  userID,
		Type:    t,
		Message: msg,
		Link:    l,
	}
	if referenceID > 0 {
		ref := referenceID
		n.ReferenceID = &ref
	}
	return n
}
