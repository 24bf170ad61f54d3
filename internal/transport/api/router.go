package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/service/tokens"
	"github.com/fsdevblog/docswap/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup  = "/api"
	HealthRoute = "/healthz"
	MetricsPath = "/metrics"

	RegisterRoute  = "/auth/register"
	VerifyRoute    = "/auth/verify"
	ResendOTPRoute = "/auth/resend-otp"
	LoginRoute     = "/auth/login"
	LogoutRoute    = "/auth/logout"

	ProfileRoute = "/me/profile"

	CategoriesRoute = "/categories"
	CategoryRoute   = "/categories/:id"

	DocumentsRoute = "/documents"
	DocumentRoute  = "/documents/:id"

	ListingsRoute      = "/listings"
	ListingRoute       = "/listings/:id"
	ListingRejectRoute = "/listings/:id/reject"

	OrdersRoute       = "/orders"
	OrderRoute        = "/orders/:id"
	OrderActionRoute  = "/orders/:id/:action"
	OrderPaymentRoute = "/orders/:id/payment"

	ReviewsRoute            = "/reviews"
	ReviewRoute             = "/reviews/:id"
	ReviewEvidenceRoute     = "/reviews/:id/evidence"
	ReviewEvidenceItemRoute = "/reviews/:id/evidence/:evidenceId"

	NotificationsRoute        = "/notifications"
	NotificationRoute         = "/notifications/:id"
	NotificationsUnreadRoute  = "/notifications/unread-count"
	NotificationsReadAllRoute = "/notifications/read-all"

	StatusesRoute = "/statuses/:domain"
	StatusRoute   = "/statuses/:domain/:code"

	AdminUsersRoute    = "/admin/users"
	AdminUserRoute     = "/admin/users/:id"
	AdminUserRoleRoute = "/admin/users/:id/role"
)

// MetricsCollector метрики HTTP слоя и обработчик их выдачи.
type MetricsCollector interface {
	middlewares.RequestObserver
	TransitionObserver
	Handler() http.Handler
}

type RouterArgs struct {
	Logger *logrus.Logger
	// Development раскрывает текст необработанных ошибок в ответах.
	Development bool

	UserService         UserServicer
	CategoryService     CategoryServicer
	DocumentService     DocumentServicer
	ListingService      ListingServicer
	OrderService        OrderServicer
	PaymentService      PaymentServicer
	ReviewService       ReviewServicer
	NotificationService NotificationServicer
	StatusService       StatusServicer

	TokenConfig tokens.Config
	Revocations middlewares.RevocationChecker
	Metrics     MetricsCollector
	DB          Pinger
}

var registerOnce sync.Once

func New(args RouterArgs) *gin.Engine {
	registerOnce.Do(func() {
		if err := registerValidators(); err != nil && args.Logger != nil {
			args.Logger.WithError(err).Error("failed to register validators")
		}
	})

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	var observer TransitionObserver
	if args.Metrics != nil {
		r.Use(middlewares.Metrics(args.Metrics))
		r.GET(MetricsPath, gin.WrapH(args.Metrics.Handler()))
		observer = args.Metrics
	}
	r.Use(middlewares.Errors(args.Logger, args.Development))

	r.NoRoute(func(c *gin.Context) {
		abortWithError(c, domain.ErrRecordNotFound)
	})
	r.GET(HealthRoute, NewHealthHandler(args.DB).Check)

	authHandler := NewAuthHandler(args.UserService)
	profileHandler := NewProfileHandler(args.UserService)
	adminHandler := NewAdminHandler(args.UserService)
	categoryHandler := NewCategoryHandler(args.CategoryService)
	documentHandler := NewDocumentHandler(args.DocumentService)
	listingHandler := NewListingHandler(args.ListingService)
	ordersHandler := NewOrdersHandler(args.OrderService, args.PaymentService, observer)
	reviewHandler := NewReviewHandler(args.ReviewService)
	notificationHandler := NewNotificationHandler(args.NotificationService)
	statusHandler := NewStatusHandler(args.StatusService)

	api := r.Group(RouteGroup)

	// публичные маршруты
	api.POST(RegisterRoute, authHandler.Register)
	api.POST(VerifyRoute, authHandler.Verify)
	api.POST(ResendOTPRoute, authHandler.ResendOTP)
	api.POST(LoginRoute, authHandler.Login)

	api.GET(CategoriesRoute, categoryHandler.Index)
	api.GET(ListingsRoute, middlewares.AuthOptional(args.TokenConfig, args.Revocations), listingHandler.Index)
	api.GET(ListingRoute, listingHandler.Show)
	api.GET(ReviewsRoute, reviewHandler.Index)
	api.GET(ReviewRoute, reviewHandler.Show)
	api.GET(StatusesRoute, statusHandler.Index)
	api.GET(StatusRoute, statusHandler.Show)

	authed := api.Group("", middlewares.AuthRequired(args.TokenConfig, args.Revocations))
	// ниже все роуты группы требуют авторизованного пользователя.
	authed.POST(LogoutRoute, authHandler.Logout)

	authed.GET(ProfileRoute, profileHandler.Show)
	authed.PUT(ProfileRoute, profileHandler.Update)

	authed.GET(DocumentsRoute, documentHandler.Index)
	authed.POST(DocumentsRoute, documentHandler.Create)
	authed.GET(DocumentRoute, documentHandler.Show)
	authed.PUT(DocumentRoute, documentHandler.Update)
	authed.DELETE(DocumentRoute, documentHandler.Delete)

	authed.POST(ListingsRoute, listingHandler.Create)
	authed.PUT(ListingRoute, listingHandler.Update)
	authed.DELETE(ListingRoute, listingHandler.Cancel)

	authed.POST(OrdersRoute, ordersHandler.Create)
	authed.GET(OrdersRoute, ordersHandler.Index)
	authed.GET(OrderRoute, ordersHandler.Show)
	authed.GET(OrderPaymentRoute, ordersHandler.Payment)
	authed.POST(OrderActionRoute, ordersHandler.Transition)

	authed.POST(ReviewsRoute, reviewHandler.Create)
	authed.PUT(ReviewRoute, reviewHandler.Update)
	authed.DELETE(ReviewRoute, reviewHandler.Delete)
	authed.POST(ReviewEvidenceRoute, reviewHandler.AddEvidence)
	authed.DELETE(ReviewEvidenceItemRoute, reviewHandler.RemoveEvidence)

	authed.GET(NotificationsRoute, notificationHandler.Index)
	authed.GET(NotificationsUnreadRoute, notificationHandler.UnreadCount)
	authed.PATCH(NotificationRoute, notificationHandler.MarkRead)
	authed.POST(NotificationsReadAllRoute, notificationHandler.MarkAllRead)

	admin := authed.Group("", middlewares.AdminRequired())
	admin.POST(CategoriesRoute, categoryHandler.Create)
	admin.PUT(CategoryRoute, categoryHandler.Update)
	admin.DELETE(CategoryRoute, categoryHandler.Delete)
	admin.POST(ListingRejectRoute, listingHandler.Reject)
	admin.GET(AdminUsersRoute, adminHandler.Users)
	admin.PUT(AdminUserRoleRoute, adminHandler.SetRole)
	admin.DELETE(AdminUserRoute, adminHandler.DeleteUser)

	return r
}
