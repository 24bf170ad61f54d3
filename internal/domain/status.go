package domain

import "slices"

// StatusDomain пространство имен кодов в каталоге статусов. Коды уникальны в пределах одного домена.
type StatusDomain string

const (
	StatusDomainListing  StatusDomain = "Listing"
	StatusDomainOrder    StatusDomain = "Order"
	StatusDomainDocument StatusDomain = "Document"
	StatusDomainPayment  StatusDomain = "Payment"
)

// Status запись каталога статусов (таблица statuses).
type Status struct {
	ID         int64
	Domain     StatusDomain
	Code       string
	Name       string
	SortOrder  int
	IsTerminal bool
}

type ListingStatus string

const (
	ListingStatusActive    ListingStatus = "Active"
	ListingStatusSold      ListingStatus = "Sold"
	ListingStatusRejected  ListingStatus = "Rejected"
	ListingStatusCancelled ListingStatus = "Cancelled"
)

type DocumentStatus string

const (
	DocumentStatusInStock     DocumentStatus = "InStock"
	DocumentStatusListed      DocumentStatus = "Listed"
	DocumentStatusPendingSale DocumentStatus = "PendingSale"
	DocumentStatusSold        DocumentStatus = "Sold"
	DocumentStatusCancelled   DocumentStatus = "Cancelled"
)

type OrderStatus string

const (
	OrderStatusPendingSellerConfirmation OrderStatus = "PendingSellerConfirmation"
	OrderStatusConfirmedBySeller         OrderStatus = "ConfirmedBySeller"
	OrderStatusAwaitingOfflinePayment    OrderStatus = "AwaitingOfflinePayment"
	OrderStatusPaymentConfirmed          OrderStatus = "PaymentConfirmed"
	OrderStatusPendingShipment           OrderStatus = "PendingShipment"
	OrderStatusShipped                   OrderStatus = "Shipped"
	OrderStatusDelivered                 OrderStatus = "Delivered"
	OrderStatusCompleted                 OrderStatus = "Completed"
	OrderStatusCancelledByBuyer          OrderStatus = "CancelledByBuyer"
	OrderStatusRejectedBySeller          OrderStatus = "RejectedBySeller"
)

type PaymentStatus string

const PaymentStatusConfirmed PaymentStatus = "Confirmed"

// statusRegistry единственный источник допустимых кодов для каждого домена. Порядок совпадает с sort_order
// в каталоге. Каталог в БД сверяется с реестром при старте приложения.
var statusRegistry = map[StatusDomain][]string{
	StatusDomainListing: {
		string(ListingStatusActive),
		string(ListingStatusSold),
		string(ListingStatusRejected),
		string(ListingStatusCancelled),
	},
	StatusDomainDocument: {
		string(DocumentStatusInStock),
		string(DocumentStatusListed),
		string(DocumentStatusPendingSale),
		string(DocumentStatusSold),
		string(DocumentStatusCancelled),
	},
	StatusDomainOrder: {
		string(OrderStatusPendingSellerConfirmation),
		string(OrderStatusConfirmedBySeller),
		string(OrderStatusAwaitingOfflinePayment),
		string(OrderStatusPaymentConfirmed),
		string(OrderStatusPendingShipment),
		string(OrderStatusShipped),
		string(OrderStatusDelivered),
		string(OrderStatusCompleted),
		string(OrderStatusCancelledByBuyer),
		string(OrderStatusRejectedBySeller),
	},
	StatusDomainPayment: {
		string(PaymentStatusConfirmed),
	},
}

// StatusDomains возвращает все зарегистрированные домены.
func StatusDomains() []StatusDomain {
	return []StatusDomain{StatusDomainListing, StatusDomainOrder, StatusDomainDocument, StatusDomainPayment}
}

// RegisteredStatusCodes возвращает копию списка кодов домена d. Для неизвестного домена вернется nil.
func RegisteredStatusCodes(d StatusDomain) []string {
	codes, ok := statusRegistry[d]
	if !ok {
		return nil
	}
	return slices.Clone(codes)
}

func IsRegisteredStatus(d StatusDomain, code string) bool {
	return slices.Contains(statusRegistry[d], code)
}

func (d StatusDomain) IsValid() bool {
	_, ok := statusRegistry[d]
	return ok
}

func (s ListingStatus) IsValid() bool {
	return IsRegisteredStatus(StatusDomainListing, string(s))
}

func (s DocumentStatus) IsValid() bool {
	return IsRegisteredStatus(StatusDomainDocument, string(s))
}

func (s OrderStatus) IsValid() bool {
	return IsRegisteredStatus(StatusDomainOrder, string(s))
}

func (s PaymentStatus) IsValid() bool {
	return IsRegisteredStatus(StatusDomainPayment, string(s))
}
