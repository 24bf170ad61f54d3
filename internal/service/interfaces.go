package service

import (
	"context"
	"io"
	"time"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

// CodeGenerator генерирует одноразовые коды подтверждения.
type CodeGenerator interface {
	Generate() (string, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// RevocationStore хранит отозванные идентификаторы токенов (jti). Запись живет до момента
// естественного истечения токена expiresAt.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// ObjectStorage хранилище файлов доказательств к отзывам.
type ObjectStorage interface {
	Put(ctx context.Context, prefix, filename, contentType string, size int64, body io.Reader) (string, string, error)
	Remove(ctx context.Context, key string) error
}

// Notifier формирует и сохраняет уведомление в рамках транзакции tx вызывающей стороны.
type Notifier interface {
	Notify(
		ctx context.Context,
		tx uow.TX,
		userID int64,
		template domain.NotificationTemplate,
		referenceID int64,
	) (*domain.Notification, error)
}

// PaymentRecorder регистрирует оплату заказа в рамках транзакции tx.
type PaymentRecorder interface {
	RecordOffline(ctx context.Context, tx uow.TX, order *domain.Order) (*domain.Payment, error)
}

type UserRepository interface {
	Create(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateOTP(ctx context.Context, id int64, otpHash string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, id int64) error
	SetRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error)
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, filter repoargs.UserFilter) ([]domain.User, int64, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, userID int64) (*domain.UserProfile, error)
	Get(ctx context.Context, userID int64) (*domain.UserProfile, error)
	Update(ctx context.Context, userID int64, args repoargs.UpdateProfile) (*domain.UserProfile, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, name, description string) (*domain.Category, error)
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	Update(ctx context.Context, id int64, name, description string) (*domain.Category, error)
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Category, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, args repoargs.CreateDocument) (*domain.Document, error)
	FindByID(ctx context.Context, id int64) (*domain.Document, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Document, error)
	Save(ctx context.Context, doc *domain.Document) (*domain.Document, error)
	List(ctx context.Context, filter repoargs.DocumentFilter) ([]domain.Document, int64, error)
}

type ListingRepository interface {
	Create(ctx context.Context, args repoargs.CreateListing) (*domain.Listing, error)
	FindByID(ctx context.Context, id int64) (*domain.Listing, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Listing, error)
	Save(ctx context.Context, listing *domain.Listing, expectedVersion int64) (*domain.Listing, error)
	List(ctx context.Context, filter repoargs.ListingFilter) ([]domain.Listing, int64, error)
	// ActiveIDsByOwner id активных объявлений владельца по возрастанию.
	ActiveIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, reason string) error
	List(ctx context.Context, filter repoargs.OrderFilter) ([]domain.Order, int64, error)
	CountOpenByListing(ctx context.Context, listingID, exceptOrderID int64) (int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	FindByOrderID(ctx context.Context, orderID int64) (*domain.Payment, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	FindByID(ctx context.Context, id int64) (*domain.Review, error)
	ExistsForOrder(ctx context.Context, orderID int64) (bool, error)
	Update(ctx context.Context, id int64, rating int, comment string) (*domain.Review, error)
	SoftDelete(ctx context.Context, id int64) error
	ListBySeller(ctx context.Context, filter repoargs.ReviewFilter) ([]domain.Review, int64, error)
}

type EvidenceRepository interface {
	Create(ctx context.Context, ev *domain.ReviewEvidence) (*domain.ReviewEvidence, error)
	FindByID(ctx context.Context, id int64) (*domain.ReviewEvidence, error)
	ListByReview(ctx context.Context, reviewID int64) ([]domain.ReviewEvidence, error)
	SoftDelete(ctx context.Context, id int64) error
}

type NotificationRepository interface {
	Create(ctx context.Context, nt *domain.Notification) (*domain.Notification, error)
	List(ctx context.Context, filter repoargs.NotificationFilter) ([]domain.Notification, int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	ListUndispatched(ctx context.Context, limit int) ([]domain.Notification, error)
	MarkDispatched(ctx context.Context, ids []int64) error
}

type StatusRepository interface {
	All(ctx context.Context) ([]domain.Status, error)
	FindByDomain(ctx context.Context, d domain.StatusDomain) ([]domain.Status, error)
	FindByDomainAndCode(ctx context.Context, d domain.StatusDomain, code string) (*domain.Status, error)
}
