package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
	"github.com/google/uuid"
)

type PaymentService struct {
	uow         uow.UOW
	paymentRepo PaymentRepository
	orderRepo   OrderRepository
}

func NewPaymentService(u uow.UOW) (*PaymentService, error) {
	paymentRepo, err := repo[PaymentRepository](u, repoargs.PaymentRepoName)
	if err != nil {
		return nil, err
	}
	orderRepo, err := repo[OrderRepository](u, repoargs.OrderRepoName)
	if err != nil {
		return nil, err
	}
	return &PaymentService{
		uow:         u,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
	}, nil
}

// RecordOffline создает подтвержденный офлайн-платеж на сумму заказа. Если платеж уже существует,
// возвращается он.
func (s *PaymentService) RecordOffline(
	ctx context.Context,
	tx uow.TX,
	order *domain.Order,
) (*domain.Payment, error) {
	paymentRepo, err := txRepo[PaymentRepository](tx, repoargs.PaymentRepoName)
	if err != nil {
		return nil, err
	}

	existing, err := paymentRepo.FindByOrderID(ctx, order.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, fmt.Errorf("recording payment for order %d: %w", order.ID, err)
	}

	payment, err := paymentRepo.Create(ctx, &domain.Payment{
		OrderID:       order.ID,
		Method:        order.PaymentMethod,
		Amount:        order.TotalAmount,
		Status:        domain.PaymentStatusConfirmed,
		PaidAt:        time.Now().UTC(),
		TransactionID: uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("recording payment for order %d: %w", order.ID, err)
	}
	return payment, nil
}

// GetByOrder возвращает платеж заказа участнику заказа или администратору.
func (s *PaymentService) GetByOrder(ctx context.Context, actor domain.Actor, orderID int64) (*domain.Payment, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if _, ok := order.PartyOf(actor.ID); !ok && !actor.IsAdmin() {
		return nil, forbidden("user %d is not a participant of order %d", actor.ID, orderID)
	}
	return s.paymentRepo.FindByOrderID(ctx, orderID) //nolint:wrapcheck
}
