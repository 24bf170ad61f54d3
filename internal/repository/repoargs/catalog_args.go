package repoargs

import "github.com/fsdevblog/docswap/internal/domain"

type CreateDocument struct {
	OwnerID     int64
	CategoryID  int64
	Title       string
	Author      string
	Condition   domain.DocumentCondition
	Description string
}

type DocumentFilter struct {
	OwnerID int64
	Status  domain.DocumentStatus
	Page    Page
}

type ReviewFilter struct {
	SellerID int64
	Page     Page
}

type NotificationFilter struct {
	UserID     int64
	UnreadOnly bool
	Page       Page
}
