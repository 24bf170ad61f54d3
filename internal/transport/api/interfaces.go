package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/internal/service"
	"github.com/fsdevblog/docswap/internal/service/tokens"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, error)
	VerifyOTP(ctx context.Context, email, code string) (*service.AuthResult, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, args service.LoginUserArgs) (*service.AuthResult, error)
	Logout(ctx context.Context, claims *tokens.UserClaims) error
	GetProfile(ctx context.Context, userID int64) (*service.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, args repoargs.UpdateProfile) (*service.Profile, error)
	ListUsers(ctx context.Context, filter repoargs.UserFilter) (*repoargs.PageResult[domain.User], error)
	SetRole(ctx context.Context, actor domain.Actor, userID int64, role domain.Role) (*domain.User, error)
	DeleteUser(ctx context.Context, actor domain.Actor, userID int64) error
}

type CategoryServicer interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, actor domain.Actor, name, description string) (*domain.Category, error)
	Update(ctx context.Context, actor domain.Actor, id int64, name, description string) (*domain.Category, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
}

type DocumentServicer interface {
	Create(ctx context.Context, actor domain.Actor, args service.DocumentArgs) (*domain.Document, error)
	Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Document, error)
	ListOwn(
		ctx context.Context,
		actor domain.Actor,
		filter repoargs.DocumentFilter,
	) (*repoargs.PageResult[domain.Document], error)
	Update(ctx context.Context, actor domain.Actor, id int64, args service.DocumentArgs) (*domain.Document, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
}

type ListingServicer interface {
	Create(ctx context.Context, actor domain.Actor, args service.CreateListingArgs) (*domain.Listing, error)
	Update(
		ctx context.Context,
		actor domain.Actor,
		id int64,
		args service.UpdateListingArgs,
	) (*domain.Listing, error)
	Cancel(ctx context.Context, actor domain.Actor, id int64) (*domain.Listing, error)
	Reject(ctx context.Context, actor domain.Actor, id int64, reason string) (*domain.Listing, error)
	Get(ctx context.Context, id int64) (*domain.Listing, error)
	List(
		ctx context.Context,
		actor domain.Actor,
		filter repoargs.ListingFilter,
	) (*repoargs.PageResult[domain.Listing], error)
}

type OrderServicer interface {
	Create(ctx context.Context, actor domain.Actor, args service.CreateOrderArgs) (*domain.Order, error)
	Transition(
		ctx context.Context,
		actor domain.Actor,
		orderID int64,
		action domain.OrderAction,
		reason string,
	) (*domain.Order, error)
	Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Order, error)
	List(
		ctx context.Context,
		actor domain.Actor,
		filter repoargs.OrderFilter,
	) (*repoargs.PageResult[domain.Order], error)
}

type PaymentServicer interface {
	GetByOrder(ctx context.Context, actor domain.Actor, orderID int64) (*domain.Payment, error)
}

type ReviewServicer interface {
	Create(ctx context.Context, actor domain.Actor, args service.CreateReviewArgs) (*domain.Review, error)
	Get(ctx context.Context, id int64) (*domain.Review, error)
	Update(ctx context.Context, actor domain.Actor, id int64, rating int, comment string) (*domain.Review, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
	ListBySeller(ctx context.Context, filter repoargs.ReviewFilter) (*repoargs.PageResult[domain.Review], error)
	AddEvidence(
		ctx context.Context,
		actor domain.Actor,
		reviewID int64,
		args service.UploadEvidenceArgs,
	) (*domain.ReviewEvidence, error)
	RemoveEvidence(ctx context.Context, actor domain.Actor, reviewID, evidenceID int64) error
}

type NotificationServicer interface {
	List(
		ctx context.Context,
		filter repoargs.NotificationFilter,
	) (*repoargs.PageResult[domain.Notification], error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

type StatusServicer interface {
	GetByDomain(ctx context.Context, d domain.StatusDomain) ([]domain.Status, error)
	GetByDomainAndCode(ctx context.Context, d domain.StatusDomain, code string) (*domain.Status, error)
}

// TransitionObserver учитывает успешные переходы заказов.
type TransitionObserver interface {
	ObserveOrderTransition(action string)
}

// Pinger проверка доступности БД для /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}
