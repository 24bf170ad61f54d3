package service

import (
	"context"
	"testing"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceTestSuite struct {
	serviceSuite
	paymentService *PaymentService
}

func TestPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

func (s *PaymentServiceTestSuite) SetupTest() {
	s.serviceSuite.SetupTest()

	paymentService, err := NewPaymentService(s.mockUOW)
	s.Require().NoError(err)
	s.paymentService = paymentService
}

func (s *PaymentServiceTestSuite) TestRecordOffline() {
	order := orderIn(domain.OrderStatusPaymentConfirmed)

	s.Run("creates confirmed payment", func() {
		s.paymentRepo.EXPECT().FindByOrderID(gomock.Any(), orderID).Return(nil, domain.ErrRecordNotFound)
		s.paymentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
				s.True(p.Amount.Equal(order.TotalAmount))
				s.Equal(domain.PaymentMethodOffline, p.Method)
				s.Equal(domain.PaymentStatusConfirmed, p.Status)
				s.NotEmpty(p.TransactionID)
				return p, nil
			})

		_, err := s.paymentService.RecordOffline(s.T().Context(), s.mockTX, order)
		s.Require().NoError(err)
	})

	s.Run("existing payment is returned", func() {
		existing := &domain.Payment{ID: 9, OrderID: orderID}
		s.paymentRepo.EXPECT().FindByOrderID(gomock.Any(), orderID).Return(existing, nil)
		s.paymentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		p, err := s.paymentService.RecordOffline(s.T().Context(), s.mockTX, order)
		s.Require().NoError(err)
		s.Equal(int64(9), p.ID)
	})
}

func (s *PaymentServiceTestSuite) TestGetByOrder() {
	s.orderRepo.EXPECT().FindByID(gomock.Any(), orderID).Return(orderIn(domain.OrderStatusPaymentConfirmed), nil).Times(2)
	s.paymentRepo.EXPECT().FindByOrderID(gomock.Any(), orderID).Return(&domain.Payment{OrderID: orderID}, nil)

	_, err := s.paymentService.GetByOrder(s.T().Context(), seller, orderID)
	s.Require().NoError(err)

	_, err = s.paymentService.GetByOrder(s.T().Context(), stranger, orderID)
	s.Require().ErrorIs(err, domain.ErrForbidden)
}
