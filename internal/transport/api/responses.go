package api

import (
	"time"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

type PageResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

func newPageResponse[M any, T any](res *repoargs.PageResult[M], conv func(M) T) PageResponse[T] {
	items := make([]T, len(res.Items))
	for i, m := range res.Items {
		items[i] = conv(m)
	}
	return PageResponse[T]{
		Items:    items,
		Total:    res.Total,
		Page:     res.Page.Number,
		PageSize: res.Page.Size,
	}
}

type UserResponse struct {
	ID            int64       `json:"id"`
	Email         string      `json:"email"`
	Username      string      `json:"username"`
	Role          domain.Role `json:"role"`
	EmailVerified bool        `json:"emailVerified"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func newUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type ProfileResponse struct {
	User      UserResponse `json:"user"`
	FullName  string       `json:"fullName"`
	Phone     string       `json:"phone"`
	Address   string       `json:"address"`
	AvatarURL string       `json:"avatarUrl"`
}

type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newCategoryResponse(c domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type DocumentResponse struct {
	ID          int64                    `json:"id"`
	OwnerID     int64                    `json:"ownerId"`
	CategoryID  int64                    `json:"categoryId"`
	Title       string                   `json:"title"`
	Author      string                   `json:"author"`
	Condition   domain.DocumentCondition `json:"condition"`
	Description string                   `json:"description"`
	Status      domain.DocumentStatus    `json:"status"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

func newDocumentResponse(d domain.Document) DocumentResponse {
	return DocumentResponse{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		CategoryID:  d.CategoryID,
		Title:       d.Title,
		Author:      d.Author,
		Condition:   d.Condition,
		Description: d.Description,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type ListingResponse struct {
	ID                 int64                `json:"id"`
	DocumentID         int64                `json:"documentId"`
	OwnerID            int64                `json:"ownerId"`
	Type               domain.ListingType   `json:"type"`
	Price              decimal.Decimal      `json:"price"`
	Quantity           int                  `json:"quantity"`
	DesiredDocumentIDs []int64              `json:"desiredDocumentIds"`
	Status             domain.ListingStatus `json:"status"`
	RejectReason       string               `json:"rejectReason,omitempty"`
	Version            int64                `json:"version"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

func newListingResponse(l domain.Listing) ListingResponse {
	desired := l.DesiredDocumentIDs
	if desired == nil {
		desired = []int64{}
	}
	return ListingResponse{
		ID:                 l.ID,
		DocumentID:         l.DocumentID,
		OwnerID:            l.OwnerID,
		Type:               l.Type,
		Price:              l.Price,
		Quantity:           l.Quantity,
		DesiredDocumentIDs: desired,
		Status:             l.Status,
		RejectReason:       l.RejectReason,
		Version:            l.Version,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}

type OrderDetailResponse struct {
	ListingID     int64           `json:"listingId"`
	DocumentID    int64           `json:"documentId"`
	DocumentTitle string          `json:"documentTitle"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Amount        decimal.Decimal `json:"amount"`
}

type OrderResponse struct {
	ID              int64                 `json:"id"`
	BuyerID         int64                 `json:"buyerId"`
	SellerID        int64                 `json:"sellerId"`
	Status          domain.OrderStatus    `json:"status"`
	TotalAmount     decimal.Decimal       `json:"totalAmount"`
	PaymentMethod   domain.PaymentMethod  `json:"paymentMethod"`
	ShippingAddress string                `json:"shippingAddress"`
	Note            string                `json:"note,omitempty"`
	Reason          string                `json:"reason,omitempty"`
	Details         []OrderDetailResponse `json:"details"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

func newOrderResponse(o domain.Order) OrderResponse {
	details := make([]OrderDetailResponse, len(o.Details))
	for i, d := range o.Details {
		details[i] = OrderDetailResponse{
			ListingID:     d.ListingID,
			DocumentID:    d.DocumentID,
			DocumentTitle: d.DocumentTitle,
			Quantity:      d.Quantity,
			Price:         d.Price,
			Amount:        d.Amount,
		}
	}
	return OrderResponse{
		ID:              o.ID,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		PaymentMethod:   o.PaymentMethod,
		ShippingAddress: o.ShippingAddress,
		Note:            o.Note,
		Reason:          o.Reason,
		Details:         details,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

type PaymentResponse struct {
	ID            int64                `json:"id"`
	OrderID       int64                `json:"orderId"`
	Method        domain.PaymentMethod `json:"method"`
	Amount        decimal.Decimal      `json:"amount"`
	Status        domain.PaymentStatus `json:"status"`
	PaidAt        time.Time            `json:"paidAt"`
	TransactionID string               `json:"transactionId"`
}

func newPaymentResponse(p domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Method:        p.Method,
		Amount:        p.Amount,
		Status:        p.Status,
		PaidAt:        p.PaidAt,
		TransactionID: p.TransactionID,
	}
}

type EvidenceResponse struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newEvidenceResponse(e domain.ReviewEvidence) EvidenceResponse {
	return EvidenceResponse{
		ID:          e.ID,
		URL:         e.URL,
		ContentType: e.ContentType,
		CreatedAt:   e.CreatedAt,
	}
}

type ReviewResponse struct {
	ID         int64              `json:"id"`
	OrderID    int64              `json:"orderId"`
	ReviewerID int64              `json:"reviewerId"`
	SellerID   int64              `json:"sellerId"`
	Rating     int                `json:"rating"`
	Comment    string             `json:"comment"`
	Evidence   []EvidenceResponse `json:"evidence"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

func newReviewResponse(r domain.Review) ReviewResponse {
	evidence := make([]EvidenceResponse, len(r.Evidence))
	for i, e := range r.Evidence {
		evidence[i] = newEvidenceResponse(e)
	}
	return ReviewResponse{
		ID:         r.ID,
		OrderID:    r.OrderID,
		ReviewerID: r.ReviewerID,
		SellerID:   r.SellerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Evidence:   evidence,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type NotificationResponse struct {
	ID          int64                       `json:"id"`
	Type        domain.NotificationTemplate `json:"type"`
	ReferenceID *int64                      `json:"referenceId,omitempty"`
	Message     string                      `json:"message"`
	Link        string                      `json:"link"`
	IsRead      bool                        `json:"isRead"`
	CreatedAt   time.Time                   `json:"createdAt"`
}

func newNotificationResponse(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Type:        n.Type,
		ReferenceID: n.ReferenceID,
		Message:     n.Message,
		Link:        n.Link,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}

type StatusResponse struct {
	Domain     domain.StatusDomain `json:"domain"`
	Code       string              `json:"code"`
	Name       string              `json:"name"`
	SortOrder  int                 `json:"sortOrder"`
	IsTerminal bool                `json:"isTerminal"`
}

func newStatusResponse(s domain.Status) StatusResponse {
	return StatusResponse{
		Domain:     s.Domain,
		Code:       s.Code,
		Name:       s.Name,
		SortOrder:  s.SortOrder,
		IsTerminal: s.IsTerminal,
	}
}
