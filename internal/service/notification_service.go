package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
)

type NotificationService struct {
	uow              uow.UOW
	notificationRepo NotificationRepository
}

func NewNotificationService(u uow.UOW) (*NotificationService, error) {
	notificationRepo, err := repo[NotificationRepository](u, repoargs.NotificationRepoName)
	if err != nil {
		return nil, err
	}
	return &NotificationService{
		uow:              u,
		notificationRepo: notificationRepo,
	}, nil
}

// Notify формирует текст уведомления по шаблону и сохраняет его в транзакции tx. Отправка в шину событий
// выполняется позже диспетчером, поэтому откат транзакции отменяет и уведомление.
func (s *NotificationService) Notify(
	ctx context.Context,
	tx uow.TX,
	userID int64,
	template domain.NotificationTemplate,
	referenceID int64,
) (*domain.Notification, error) {
	notificationRepo, err := txRepo[NotificationRepository](tx, repoargs.NotificationRepoName)
	if err != nil {
		return nil, err
	}
	n, err := notificationRepo.Create(ctx, domain.NewNotification(userID, template, referenceID))
	if err != nil {
		return nil, fmt.Errorf("notifying user %d: %w", userID, err)
	}
	return n, nil
}

func (s *NotificationService) List(
	ctx context.Context,
	filter repoargs.NotificationFilter,
) (*repoargs.PageResult[domain.Notification], error) {
	items, total, err := s.notificationRepo.List(ctx, filter)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return repoargs.NewPageResult(items, total, filter.Page), nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID) //nolint:wrapcheck
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	return s.notificationRepo.MarkRead(ctx, userID, id) //nolint:wrapcheck
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID) //nolint:wrapcheck
}

// GetUndispatched возвращает не более limit уведомлений, еще не отправленных в шину событий.
func (s *NotificationService) GetUndispatched(ctx context.Context, limit int) ([]domain.Notification, error) {
	return s.notificationRepo.ListUndispatched(ctx, limit) //nolint:wrapcheck
}

func (s *NotificationService) MarkDispatched(ctx context.Context, ids []int64) error {
	return s.notificationRepo.MarkDispatched(ctx, ids) //nolint:wrapcheck
}
