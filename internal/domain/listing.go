package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

var listingTransitions = map[ListingStatus][]ListingStatus{
	ListingStatusActive: {ListingStatusSold, ListingStatusRejected, ListingStatusCancelled},
}

var documentTransitions = map[DocumentStatus][]DocumentStatus{
	DocumentStatusInStock:     {DocumentStatusListed, DocumentStatusCancelled},
	DocumentStatusListed:      {DocumentStatusInStock, DocumentStatusPendingSale},
	DocumentStatusPendingSale: {DocumentStatusListed, DocumentStatusInStock, DocumentStatusSold},
}

func (s ListingStatus) CanTransitionTo(next ListingStatus) bool {
	return slices.Contains(listingTransitions[s], next)
}

func (s ListingStatus) IsTerminal() bool {
	return len(listingTransitions[s]) == 0
}

func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	return slices.Contains(documentTransitions[s], next)
}

// TransitionTo переводит объявление в статус next. Переход вне таблицы listingTransitions
// возвращает InvalidTransitionError.
func (l *Listing) TransitionTo(next ListingStatus) error {
	if !l.Status.CanTransitionTo(next) {
		return NewInvalidTransitionError(StatusDomainListing, string(l.Status), string(next))
	}
	l.Status = next
	return nil
}

// TransitionTo переводит документ в статус next. Переход в текущий статус не является ошибкой.
func (d *Document) TransitionTo(next DocumentStatus) error {
	if d.Status == next {
		return nil
	}
	if !d.Status.CanTransitionTo(next) {
		return NewInvalidTransitionError(StatusDomainDocument, string(d.Status), string(next))
	}
	d.Status = next
	return nil
}

func (l *Listing) IsActive() bool {
	return l.Status == ListingStatusActive && !l.IsDeleted
}

// ValidateListingTerms проверяет согласованность типа объявления, цены, количества и желаемых документов.
func ValidateListingTerms(t ListingType, price decimal.Decimal, quantity int, desired []int64) error {
	verr := &ValidationError{}
	if !t.IsValid() {
		verr.Add("type", "must be one of Sell, Exchange")
	}
	if quantity < 0 {
		verr.Add("quantity", "must be greater than or equal to 0")
	}
	switch t {
	case ListingTypeSell:
		if !price.IsPositive() {
			verr.Add("price", "must be greater than 0 for Sell listings")
		}
	case ListingTypeExchange:
		if !price.IsZero() {
			verr.Add("price", "must be 0 for Exchange listings")
		}
		if len(desired) == 0 {
			verr.Add("desiredDocumentIds", "must not be empty for Exchange listings")
		}
	}
	return verr.OrNil()
}
