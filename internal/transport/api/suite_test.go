package api

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/metrics"
	"github.com/fsdevblog/docswap/internal/revocation"
	"github.com/fsdevblog/docswap/internal/service/tokens"
	"github.com/fsdevblog/docswap/internal/transport/api/middlewares"
	"github.com/fsdevblog/docswap/internal/transport/api/mocks"
	"github.com/fsdevblog/docswap/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

var (
	buyer  = domain.Actor{ID: 5, Role: domain.RoleUser}
	seller = domain.Actor{ID: 1, Role: domain.RoleUser}
	admin  = domain.Actor{ID: 99, Role: domain.RoleAdmin}
)

// handlerSuite роутер со всеми сервисами, замененными моками.
type handlerSuite struct {
	suite.Suite
	mockCtrl *gomock.Controller
	router   *gin.Engine

	userService         *mocks.MockUserServicer
	categoryService     *mocks.MockCategoryServicer
	documentService     *mocks.MockDocumentServicer
	listingService      *mocks.MockListingServicer
	orderService        *mocks.MockOrderServicer
	paymentService      *mocks.MockPaymentServicer
	reviewService       *mocks.MockReviewServicer
	notificationService *mocks.MockNotificationServicer
	statusService       *mocks.MockStatusServicer

	revocations *revocation.MemoryStore
	metrics     *metrics.Metrics
	tokenConf   tokens.Config
}

func (s *handlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.mockCtrl = gomock.NewController(s.T())

	s.userService = mocks.NewMockUserServicer(s.mockCtrl)
	s.categoryService = mocks.NewMockCategoryServicer(s.mockCtrl)
	s.documentService = mocks.NewMockDocumentServicer(s.mockCtrl)
	s.listingService = mocks.NewMockListingServicer(s.mockCtrl)
	s.orderService = mocks.NewMockOrderServicer(s.mockCtrl)
	s.paymentService = mocks.NewMockPaymentServicer(s.mockCtrl)
	s.reviewService = mocks.NewMockReviewServicer(s.mockCtrl)
	s.notificationService = mocks.NewMockNotificationServicer(s.mockCtrl)
	s.statusService = mocks.NewMockStatusServicer(s.mockCtrl)

	s.revocations = revocation.NewMemoryStore()
	s.metrics = metrics.New()
	s.tokenConf = tokens.Config{
		Secret:   []byte("super secret key"),
		Issuer:   "docswap",
		Audience: "docswap-api",
		TTL:      time.Hour,
	}

	l := logrus.New()
	l.SetOutput(io.Discard)

	s.router = New(RouterArgs{
		Logger:              l,
		UserService:         s.userService,
		CategoryService:     s.categoryService,
		DocumentService:     s.documentService,
		ListingService:      s.listingService,
		OrderService:        s.orderService,
		PaymentService:      s.paymentService,
		ReviewService:       s.reviewService,
		NotificationService: s.notificationService,
		StatusService:       s.statusService,
		TokenConfig:         s.tokenConf,
		Revocations:         s.revocations,
		Metrics:             s.metrics,
	})
}

func (s *handlerSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// tokenFor выпускает действующий токен для actor.
func (s *handlerSuite) tokenFor(actor domain.Actor) (string, *tokens.UserClaims) {
	token, claims, err := tokens.GenerateUserJWT(actor.ID, actor.Role, s.tokenConf)
	s.Require().NoError(err)
	return token, claims
}

// do выполняет запрос от имени actor. Пустой Actor означает анонимный запрос.
func (s *handlerSuite) do(method, url string, body io.Reader, actor domain.Actor) *http.Response {
	var opts []func(*testutils.RequestOptions)
	if actor.ID != 0 {
		token, _ := s.tokenFor(actor)
		opts = append(opts, testutils.WithBearer(token))
	}
	if body != nil {
		opts = append(opts, testutils.WithHeader("Content-Type", "application/json"))
	}
	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: method,
		URL:    url,
		Body:   body,
	}, opts...)
	s.Require().NoError(err)
	return res
}

// problem проверяет код ответа и возвращает тело problem details.
func (s *handlerSuite) problem(res *http.Response, wantStatus int) middlewares.Problem {
	s.Require().Equal(wantStatus, res.StatusCode)
	s.Contains(res.Header.Get("Content-Type"), middlewares.ProblemContentType)
	var p middlewares.Problem
	s.Require().NoError(testutils.DecodeJSON(res, &p))
	s.Equal(wantStatus, p.Status)
	return p
}

func (s *handlerSuite) closeBody(res *http.Response) {
	s.Require().NoError(res.Body.Close())
}

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}
