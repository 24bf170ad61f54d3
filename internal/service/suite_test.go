package service

import (
	"context"

	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/internal/service/mocks"
	"github.com/fsdevblog/docswap/pkg/uow"
	uowmocks "github.com/fsdevblog/docswap/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

// serviceSuite общая обвязка для тестов сервисов: uow, транзакция и моки всех репозиториев.
type serviceSuite struct {
	suite.Suite
	mockCtrl *gomock.Controller
	mockUOW  *uowmocks.MockUOW
	mockTX   *uowmocks.MockTX

	userRepo         *mocks.MockUserRepository
	profileRepo      *mocks.MockProfileRepository
	categoryRepo     *mocks.MockCategoryRepository
	documentRepo     *mocks.MockDocumentRepository
	listingRepo      *mocks.MockListingRepository
	orderRepo        *mocks.MockOrderRepository
	paymentRepo      *mocks.MockPaymentRepository
	reviewRepo       *mocks.MockReviewRepository
	evidenceRepo     *mocks.MockEvidenceRepository
	notificationRepo *mocks.MockNotificationRepository
	statusRepo       *mocks.MockStatusRepository

	notifier *mocks.MockNotifier
}

func (s *serviceSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)

	s.userRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.profileRepo = mocks.NewMockProfileRepository(s.mockCtrl)
	s.categoryRepo = mocks.NewMockCategoryRepository(s.mockCtrl)
	s.documentRepo = mocks.NewMockDocumentRepository(s.mockCtrl)
	s.listingRepo = mocks.NewMockListingRepository(s.mockCtrl)
	s.orderRepo = mocks.NewMockOrderRepository(s.mockCtrl)
	s.paymentRepo = mocks.NewMockPaymentRepository(s.mockCtrl)
	s.reviewRepo = mocks.NewMockReviewRepository(s.mockCtrl)
	s.evidenceRepo = mocks.NewMockEvidenceRepository(s.mockCtrl)
	s.notificationRepo = mocks.NewMockNotificationRepository(s.mockCtrl)
	s.statusRepo = mocks.NewMockStatusRepository(s.mockCtrl)
	s.notifier = mocks.NewMockNotifier(s.mockCtrl)

	repos := map[repoargs.RepositoryName]uow.Repository{
		repoargs.UserRepoName:         s.userRepo,
		repoargs.ProfileRepoName:      s.profileRepo,
		repoargs.CategoryRepoName:     s.categoryRepo,
		repoargs.DocumentRepoName:     s.documentRepo,
		repoargs.ListingRepoName:      s.listingRepo,
		repoargs.OrderRepoName:        s.orderRepo,
		repoargs.PaymentRepoName:      s.paymentRepo,
		repoargs.ReviewRepoName:       s.reviewRepo,
		repoargs.EvidenceRepoName:     s.evidenceRepo,
		repoargs.NotificationRepoName: s.notificationRepo,
		repoargs.StatusRepoName:       s.statusRepo,
	}
	// Репозитории из uow (инициализация сервисов) и из транзакции.
	for name, r := range repos {
		s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(name)).Return(r, nil).AnyTimes()
		s.mockTX.EXPECT().Get(uow.RepositoryName(name)).Return(r, nil).AnyTimes()
	}

	// Транзакция просто выполняет переданную функцию с моком TX.
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()
}

func (s *serviceSuite) TearDownTest() {
	s.mockCtrl.Finish()
}
