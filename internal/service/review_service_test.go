package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/service/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type ReviewServiceTestSuite struct {
	serviceSuite
	storage       *mocks.MockObjectStorage
	reviewService *ReviewService
}

func TestReviewServiceSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceTestSuite))
}

func (s *ReviewServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.storage = mocks.NewMockObjectStorage(s.mockCtrl)

	reviewService, err := NewReviewService(s.mockUOW, s.storage, s.notifier)
	s.Require().NoError(err)
	s.reviewService = reviewService
}

func (s *ReviewServiceTestSuite) TestCreate() {
	args := CreateReviewArgs{OrderID: orderID, Rating: 5, Comment: gofakeit.Phrase()}

	s.Run("completed order", func() {
		s.orderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), orderID).Return(orderIn(domain.OrderStatusCompleted), nil)
		s.reviewRepo.EXPECT().ExistsForOrder(gomock.Any(), orderID).Return(false, nil)
		s.reviewRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r *domain.Review) (*domain.Review, error) {
				s.Equal(buyerID, r.ReviewerID)
				s.Equal(sellerID, r.SellerID)
				s.Equal(5, r.Rating)
				created := *r
				created.ID = 300
				return &created, nil
			})
		s.notifier.EXPECT().
			Notify(gomock.Any(), s.mockTX, sellerID, domain.NotificationReviewReceived, int64(300)).
			Return(&domain.Notification{}, nil)

		review, err := s.reviewService.Create(s.T().Context(), buyer, args)
		s.Require().NoError(err)
		s.Equal(int64(300), review.ID)
	})

	s.Run("order not completed", func() {
		s.orderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), orderID).Return(orderIn(domain.OrderStatusDelivered), nil)

		_, err := s.reviewService.Create(s.T().Context(), buyer, args)
		s.Require().ErrorIs(err, domain.ErrForbidden)
	})

	s.Run("seller cannot review", func() {
		s.orderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), orderID).Return(orderIn(domain.OrderStatusCompleted), nil)

		_, err := s.reviewService.Create(s.T().Context(), seller, args)
		s.Require().ErrorIs(err, domain.ErrForbidden)
	})

	s.Run("second review", func() {
		s.orderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), orderID).Return(orderIn(domain.OrderStatusCompleted), nil)
		s.reviewRepo.EXPECT().ExistsForOrder(gomock.Any(), orderID).Return(true, nil)

		_, err := s.reviewService.Create(s.T().Context(), buyer, args)
		s.Require().ErrorIs(err, domain.ErrConflict)
	})

	s.Run("concurrent review hits unique index", func() {
		s.orderRepo.EXPECT().FindByIDForUpdate(gomock.Any(), orderID).Return(orderIn(domain.OrderStatusCompleted), nil)
		s.reviewRepo.EXPECT().ExistsForOrder(gomock.Any(), orderID).Return(false, nil)
		s.reviewRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDuplicateKey)

		_, err := s.reviewService.Create(s.T().Context(), buyer, args)
		s.Require().ErrorIs(err, domain.ErrConflict)
	})

	s.Run("rating out of range", func() {
		bad := args
		bad.Rating = 6
		_, err := s.reviewService.Create(s.T().Context(), buyer, bad)
		var verr *domain.ValidationError
		s.Require().ErrorAs(err, &verr)
		s.Contains(verr.Fields, "rating")
	})
}

func (s *ReviewServiceTestSuite) TestDelete() {
	review := &domain.Review{ID: 300, ReviewerID: buyerID, SellerID: sellerID}

	s.reviewRepo.EXPECT().FindByID(gomock.Any(), int64(300)).Return(review, nil).Times(3)
	s.reviewRepo.EXPECT().SoftDelete(gomock.Any(), int64(300)).Return(nil).Times(2)

	s.Require().NoError(s.reviewService.Delete(s.T().Context(), buyer, 300))
	s.Require().NoError(s.reviewService.Delete(s.T().Context(), admin, 300))
	s.Require().ErrorIs(s.reviewService.Delete(s.T().Context(), seller, 300), domain.ErrForbidden)
}

func (s *ReviewServiceTestSuite) TestAddEvidence() {
	review := &domain.Review{ID: 300, ReviewerID: buyerID, SellerID: sellerID}
	body := func() io.Reader { return strings.NewReader("%PDF-1.4") }

	s.Run("stored and recorded", func() {
		s.reviewRepo.EXPECT().FindByID(gomock.Any(), int64(300)).Return(review, nil)
		s.storage.EXPECT().
			Put(gomock.Any(), "reviews/300", "receipt.pdf", "application/pdf", int64(8), gomock.Any()).
			Return("reviews/300/abc.pdf", "http://storage/reviews/300/abc.pdf", nil)
		s.evidenceRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev *domain.ReviewEvidence) (*domain.ReviewEvidence, error) {
				s.Equal("reviews/300/abc.pdf", ev.ObjectKey)
				created := *ev
				created.ID = 1
				return &created, nil
			})

		ev, err := s.reviewService.AddEvidence(s.T().Context(), buyer, 300, UploadEvidenceArgs{
			Filename: "receipt.pdf", ContentType: "application/pdf", Size: 8, Body: body(),
		})
		s.Require().NoError(err)
		s.Equal(int64(1), ev.ID)
	})

	s.Run("object removed when record fails", func() {
		s.reviewRepo.EXPECT().FindByID(gomock.Any(), int64(300)).Return(review, nil)
		s.storage.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("reviews/300/abc.pdf", "http://storage/reviews/300/abc.pdf", nil)
		dbErr := errors.New("db is down")
		s.evidenceRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, dbErr)
		s.storage.EXPECT().Remove(gomock.Any(), "reviews/300/abc.pdf").Return(nil)

		_, err := s.reviewService.AddEvidence(s.T().Context(), buyer, 300, UploadEvidenceArgs{
			Filename: "receipt.pdf", ContentType: "application/pdf", Size: 8, Body: body(),
		})
		s.Require().ErrorIs(err, dbErr)
	})

	s.Run("unsupported content type", func() {
		_, err := s.reviewService.AddEvidence(s.T().Context(), buyer, 300, UploadEvidenceArgs{
			Filename: "run.exe", ContentType: "application/octet-stream", Size: 8, Body: body(),
		})
		var verr *domain.ValidationError
		s.Require().ErrorAs(err, &verr)
	})

	s.Run("too large", func() {
		_, err := s.reviewService.AddEvidence(s.T().Context(), buyer, 300, UploadEvidenceArgs{
			Filename: "scan.png", ContentType: "image/png", Size: MaxEvidenceSize + 1, Body: body(),
		})
		var verr *domain.ValidationError
		s.Require().ErrorAs(err, &verr)
	})

	s.Run("not the author", func() {
		s.reviewRepo.EXPECT().FindByID(gomock.Any(), int64(300)).Return(review, nil)

		_, err := s.reviewService.AddEvidence(s.T().Context(), seller, 300, UploadEvidenceArgs{
			Filename: "scan.png", ContentType: "image/png", Size: 8, Body: body(),
		})
		s.Require().ErrorIs(err, domain.ErrForbidden)
	})
}

func (s *ReviewServiceTestSuite) TestRemoveEvidenceOfAnotherReview() {
	s.reviewRepo.EXPECT().FindByID(gomock.Any(), int64(300)).
		Return(&domain.Review{ID: 300, ReviewerID: buyerID}, nil)
	s.evidenceRepo.EXPECT().FindByID(gomock.Any(), int64(1)).
		Return(&domain.ReviewEvidence{ID: 1, ReviewID: 301}, nil)

	err := s.reviewService.RemoveEvidence(s.T().Context(), buyer, 300, 1)
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}
