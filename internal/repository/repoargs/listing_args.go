package repoargs

import (
	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateListing struct {
	DocumentID         int64
	OwnerID            int64
	Type               domain.ListingType
	Price              decimal.Decimal
	Quantity           int
	DesiredDocumentIDs []int64
}

type ListingFilter struct {
	CategoryID  int64
	OwnerID     int64
	Type        domain.ListingType
	Title       string
	// AllStatuses включает объявления в любом статусе. Без него возвращаются только активные.
	AllStatuses bool
	Page        Page
}
