package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID            int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Email         string
	Username      string
	Password      string
	Role          Role
	EmailVerified bool
	OTPHash       string
	OTPExpiresAt  *time.Time
	IsDeleted     bool
	DeletedAt     *time.Time
}

type UserProfile struct {
	UserID    int64
	FullName  string
	Phone     string
	Address   string
	AvatarURL string
	UpdatedAt time.Time
}

type Category struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Description string
	IsDeleted   bool
	DeletedAt   *time.Time
}

type DocumentCondition string

const (
	ConditionNew     DocumentCondition = "new"
	ConditionLikeNew DocumentCondition = "like_new"
	ConditionGood    DocumentCondition = "good"
	ConditionFair    DocumentCondition = "fair"
	ConditionPoor    DocumentCondition = "poor"
)

func (c DocumentCondition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

type Document struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	OwnerID     int64
	CategoryID  int64
	Title       string
	Author      string
	Condition   DocumentCondition
	Description string
	Status      DocumentStatus
	IsDeleted   bool
	DeletedAt   *time.Time
}

type ListingType string

const (
	ListingTypeSell     ListingType = "Sell"
	ListingTypeExchange ListingType = "Exchange"
)

func (t ListingType) IsValid() bool {
	return t == ListingTypeSell || t == ListingTypeExchange
}

type Listing struct {
	ID                 int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DocumentID         int64
	OwnerID            int64
	Type               ListingType
	Price              decimal.Decimal
	Quantity           int
	DesiredDocumentIDs []int64
	Status             ListingStatus
	RejectReason       string
	Version            int64
	IsDeleted          bool
	DeletedAt          *time.Time
}

type PaymentMethod string

const PaymentMethodOffline PaymentMethod = "offline"

type Order struct {
	ID              int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	BuyerID         int64
	SellerID        int64
	Status          OrderStatus
	TotalAmount     decimal.Decimal
	PaymentMethod   PaymentMethod
	ShippingAddress string
	Note            string
	Reason          string
	Details         []OrderDetail
}

type OrderDetail struct {
	ID            int64
	OrderID       int64
	ListingID     int64
	DocumentID    int64
	DocumentTitle string
	Quantity      int
	Price         decimal.Decimal
	Amount        decimal.Decimal
}

type Payment struct {
	ID            int64
	CreatedAt     time.Time
	OrderID       int64
	Method        PaymentMethod
	Amount        decimal.Decimal
	Status        PaymentStatus
	PaidAt        time.Time
	TransactionID string
}

type Review struct {
	ID         int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	OrderID    int64
	ReviewerID int64
	SellerID   int64
	Rating     int
	Comment    string
	IsDeleted  bool
	DeletedAt  *time.Time
	Evidence   []ReviewEvidence
}

type ReviewEvidence struct {
	ID          int64
	CreatedAt   time.Time
	ReviewID    int64
	ObjectKey   string
	URL         string
	ContentType string
	IsDeleted   bool
	DeletedAt   *time.Time
}

type Notification struct {
	ID           int64
	CreatedAt    time.Time
	UserID       int64
	Type         NotificationTemplate
	ReferenceID  *int64
	Message      string
	Link         string
	IsRead       bool
	DispatchedAt *time.Time
}

// Actor пользователь, от имени которого выполняется операция.
type Actor struct {
	ID   int64
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
