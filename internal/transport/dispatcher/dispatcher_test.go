package dispatcher

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/transport/dispatcher/mocks"
	"github.com/fsdevblog/docswap/internal/transport/events"
	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type DispatcherTestSuite struct {
	suite.Suite
	dispatcher    *Dispatcher
	mockPublisher *mocks.MockPublisher
	mockService   *mocks.MockServicer
	ctrl          *gomock.Controller
}

func (s *DispatcherTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.mockPublisher = mocks.NewMockPublisher(s.ctrl)
	s.mockService = mocks.NewMockServicer(s.ctrl)

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	s.dispatcher = New(s.mockService, s.mockPublisher, logger).
		SetWorkers(2).
		SetRetry(3, time.Millisecond)
}

func (s *DispatcherTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherTestSuite))
}

func testNotifications() []domain.Notification {
	return []domain.Notification{
		*withID(domain.NewNotification(1, domain.NotificationOrderPlaced, 100), 1),
		*withID(domain.NewNotification(5, domain.NotificationOrderAccepted, 100), 2),
	}
}

func withID(n *domain.Notification, id int64) *domain.Notification {
	n.ID = id
	return n
}

// TestProcess_NoNotifications нечего отправлять.
func (s *DispatcherTestSuite) TestProcess_NoNotifications() {
	s.mockService.EXPECT().
		GetUndispatched(gomock.Any(), s.dispatcher.limitPerIteration).
		Return(nil, nil)

	err := s.dispatcher.process(s.T().Context())
	s.ErrorIs(err, ErrNoNotifications)
}

// TestProcess_Success все уведомления опубликованы в свои темы и помечены.
func (s *DispatcherTestSuite) TestProcess_Success() {
	s.mockService.EXPECT().
		GetUndispatched(gomock.Any(), s.dispatcher.limitPerIteration).
		Return(testNotifications(), nil)

	s.mockPublisher.EXPECT().
		Publish(gomock.Any(), "notifications.OrderPlaced", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, msg any) error {
			event, ok := msg.(events.NotificationEvent)
			s.Require().True(ok)
			s.Equal(int64(1), event.UserID)
			return nil
		})
	s.mockPublisher.EXPECT().
		Publish(gomock.Any(), "notifications.OrderAccepted", gomock.Any()).
		Return(nil)

	s.mockService.EXPECT().
		MarkDispatched(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, ids []int64) {
			slices.Sort(ids)
			s.Equal([]int64{1, 2}, ids)
		}).
		Return(nil)

	s.NoError(s.dispatcher.process(s.T().Context()))
}

// TestProcess_Retry временная ошибка повторяется, постоянная не помечает уведомление.
func (s *DispatcherTestSuite) TestProcess_Retry() {
	s.mockService.EXPECT().
		GetUndispatched(gomock.Any(), s.dispatcher.limitPerIteration).
		Return(testNotifications(), nil)

	gomock.InOrder(
		s.mockPublisher.EXPECT().
			Publish(gomock.Any(), "notifications.OrderPlaced", gomock.Any()).
			Return(events.NewTemporaryError(time.Millisecond, errors.New("reconnecting"))),
		s.mockPublisher.EXPECT().
			Publish(gomock.Any(), "notifications.OrderPlaced", gomock.Any()).
			Return(nil),
	)
	s.mockPublisher.EXPECT().
		Publish(gomock.Any(), "notifications.OrderAccepted", gomock.Any()).
		Return(errors.New("permission denied")).
		Times(3)

	s.mockService.EXPECT().
		MarkDispatched(gomock.Any(), []int64{1}).
		Return(nil)

	observer := mocks.NewMockObserver(s.ctrl)
	observer.EXPECT().ObserveDispatched(1, 1)
	s.dispatcher.SetObserver(observer)

	ctx, cancel := context.WithTimeout(s.T().Context(), time.Second)
	defer cancel()
	s.NoError(s.dispatcher.process(ctx))
}

// TestProcess_NothingPublished ничего не помечается, если публикация не удалась.
func (s *DispatcherTestSuite) TestProcess_NothingPublished() {
	s.dispatcher.SetRetry(1, time.Millisecond)
	s.mockService.EXPECT().
		GetUndispatched(gomock.Any(), s.dispatcher.limitPerIteration).
		Return(testNotifications()[:1], nil)
	s.mockPublisher.EXPECT().
		Publish(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(events.ErrNotConnected)
	s.mockService.EXPECT().MarkDispatched(gomock.Any(), gomock.Any()).Times(0)

	s.Error(s.dispatcher.process(s.T().Context()))
}

// TestRun_Stops Run завершается после отмены контекста.
func (s *DispatcherTestSuite) TestRun_Stops() {
	s.dispatcher.SetIdleInterval(5 * time.Millisecond)
	s.mockService.EXPECT().
		GetUndispatched(gomock.Any(), gomock.Any()).
		Return(nil, nil).
		AnyTimes()

	ctx, cancel := context.WithCancel(s.T().Context())
	done := make(chan struct{})
	go func() {
		s.dispatcher.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("dispatcher did not stop")
	}
}

func (s *DispatcherTestSuite) TestJitter() {
	for range 100 {
		j := jitter(100 * time.Millisecond)
		s.GreaterOrEqual(j, 50*time.Millisecond)
		s.LessOrEqual(j, 100*time.Millisecond)
	}
	s.Zero(jitter(0))
}
