package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
)

type OrderService struct {
	uow       uow.UOW
	orderRepo OrderRepository
	notifier  Notifier
	payments  PaymentRecorder
}

func NewOrderService(u uow.UOW, notifier Notifier, payments PaymentRecorder) (*OrderService, error) {
	orderRepo, err := repo[OrderRepository](u, repoargs.OrderRepoName)
	if err != nil {
		return nil, err
	}
	return &OrderService{
		uow:       u,
		orderRepo: orderRepo,
		notifier:  notifier,
		payments:  payments,
	}, nil
}

type OrderLine struct {
	ListingID int64
	Quantity  int
}

type CreateOrderArgs struct {
	Lines           []OrderLine
	ShippingAddress string
	Note            string
}

func (a CreateOrderArgs) validate() error {
	verr := &domain.ValidationError{}
	if len(a.Lines) == 0 {
		verr.Add("lines", "must contain at least one line")
	}
	seen := make(map[int64]struct{}, len(a.Lines))
	for i, line := range a.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if line.Quantity <= 0 {
			verr.Add(field+".quantity", "must be greater than 0")
		}
		if _, ok := seen[line.ListingID]; ok {
			verr.Add(field+".listingId", "duplicate listing")
		}
		seen[line.ListingID] = struct{}{}
	}
	return verr.OrNil()
}

// Create оформляет заказ покупателя. Все объявления должны быть активными и принадлежать одному продавцу.
// Цена копируется из объявления, суммы пересчитываются на сервере. Количество в объявлениях уменьшается
// с увеличением их версии, документы переходят в статус PendingSale. Продавец получает уведомление OrderPlaced.
func (s *OrderService) Create(ctx context.Context, actor domain.Actor, args CreateOrderArgs) (*domain.Order, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}

	// блокируем объявления в порядке возрастания id, чтобы параллельные заказы не взаимоблокировались.
	lines := slices.Clone(args.Lines)
	slices.SortFunc(lines, func(a, b OrderLine) int { return cmp.Compare(a.ListingID, b.ListingID) })

	var created *domain.Order
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		listingRepo, err := txRepo[ListingRepository](tx, repoargs.ListingRepoName)
		if err != nil {
			return err
		}
		documentRepo, err := txRepo[DocumentRepository](tx, repoargs.DocumentRepoName)
		if err != nil {
			return err
		}
		orderRepo, err := txRepo[OrderRepository](tx, repoargs.OrderRepoName)
		if err != nil {
			return err
		}

		order := &domain.Order{
			BuyerID:         actor.ID,
			Status:          domain.OrderStatusPendingSellerConfirmation,
			PaymentMethod:   domain.PaymentMethodOffline,
			ShippingAddress: strings.TrimSpace(args.ShippingAddress),
			Note:            args.Note,
		}
		for _, line := range lines {
			listing, lErr := s.reserve(c, listingRepo, documentRepo, actor, order, line)
			if lErr != nil {
				return lErr
			}
			order.Details = append(order.Details, domain.NewOrderDetail(listing, line.Quantity))
		}
		order.RecalculateTotal()

		if created, err = orderRepo.Create(c, order); err != nil {
			return err //nolint:wrapcheck
		}
		_, err = s.notifier.Notify(c, tx, created.SellerID, domain.NotificationOrderPlaced, created.ID)
		return err //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("creating order: %w", txErr)
	}
	return created, nil
}

// reserve проверяет объявление для строки заказа и резервирует количество.
func (s *OrderService) reserve(
	ctx context.Context,
	listingRepo ListingRepository,
	documentRepo DocumentRepository,
	actor domain.Actor,
	order *domain.Order,
	line OrderLine,
) (*domain.Listing, error) {
	listing, err := lockListing(ctx, listingRepo, line.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive() {
		return nil, conflict("listing %d is %s and cannot be ordered", listing.ID, listing.Status)
	}
	if listing.OwnerID == actor.ID {
		return nil, domain.NewValidationError("lines", fmt.Sprintf("listing %d is your own", listing.ID))
	}
	if order.SellerID == 0 {
		order.SellerID = listing.OwnerID
	} else if order.SellerID != listing.OwnerID {
		return nil, domain.NewValidationError("lines", "all listings of an order must belong to one seller")
	}
	if line.Quantity > listing.Quantity {
		return nil, conflict("listing %d has only %d item(s) available", listing.ID, listing.Quantity)
	}

	expected := listing.Version
	listing.Quantity -= line.Quantity
	saved, err := listingRepo.Save(ctx, listing, expected)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	doc, err := documentRepo.FindByIDForUpdate(ctx, listing.DocumentID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if err = doc.TransitionTo(domain.DocumentStatusPendingSale); err != nil {
		return nil, err //nolint:wrapcheck
	}
	if _, err = documentRepo.Save(ctx, doc); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return saved, nil
}

// Transition выполняет действие action над заказом от имени actor. Проверяет роль участника и допустимость
// перехода, применяет побочные эффекты (возврат количества, платеж, продажу) и отправляет ровно одно уведомление
// второй стороне заказа. Все изменения выполняются в одной транзакции.
func (s *OrderService) Transition(
	ctx context.Context,
	actor domain.Actor,
	orderID int64,
	action domain.OrderAction,
	reason string,
) (*domain.Order, error) {
	var order *domain.Order
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, err := txRepo[OrderRepository](tx, repoargs.OrderRepoName)
		if err != nil {
			return err
		}
		if order, err = orderRepo.FindByIDForUpdate(c, orderID); err != nil {
			return err //nolint:wrapcheck
		}

		tr, err := order.Apply(action, actor.ID, reason)
		if err != nil {
			return err //nolint:wrapcheck
		}
		if err = orderRepo.UpdateStatus(c, order.ID, order.Status, order.Reason); err != nil {
			return err //nolint:wrapcheck
		}

		switch {
		case tr.To.RestoresStock():
			err = s.restoreStock(c, tx, orderRepo, order)
		case tr.To == domain.OrderStatusPaymentConfirmed:
			_, err = s.payments.RecordOffline(c, tx, order)
		case tr.To == domain.OrderStatusCompleted:
			err = s.settleSale(c, tx, orderRepo, order)
		}
		if err != nil {
			return err
		}

		_, err = s.notifier.Notify(c, tx, tr.Recipient, tr.Template, order.ID)
		return err //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("order %d %s: %w", orderID, action, txErr)
	}
	return order, nil
}

// restoreStock возвращает количество позиций отмененного заказа в объявления. Документ возвращается в Listed
// (или на склад, если объявление уже снято), когда по объявлению не осталось открытых заказов.
func (s *OrderService) restoreStock(ctx context.Context, tx uow.TX, orderRepo OrderRepository, order *domain.Order) error {
	listingRepo, err := txRepo[ListingRepository](tx, repoargs.ListingRepoName)
	if err != nil {
		return err
	}
	documentRepo, err := txRepo[DocumentRepository](tx, repoargs.DocumentRepoName)
	if err != nil {
		return err
	}

	for _, d := range order.Details {
		listing, lErr := listingRepo.FindByIDForUpdate(ctx, d.ListingID)
		if lErr != nil {
			return lErr //nolint:wrapcheck
		}
		expected := listing.Version
		listing.Quantity += d.Quantity
		if listing, lErr = listingRepo.Save(ctx, listing, expected); lErr != nil {
			return lErr //nolint:wrapcheck
		}

		open, cErr := orderRepo.CountOpenByListing(ctx, listing.ID, order.ID)
		if cErr != nil {
			return cErr //nolint:wrapcheck
		}
		if open > 0 {
			continue
		}

		next := domain.DocumentStatusInStock
		if listing.IsActive() {
			next = domain.DocumentStatusListed
		}
		if dErr := moveDocument(ctx, documentRepo, d.DocumentID, domain.DocumentStatusPendingSale, next); dErr != nil {
			return dErr
		}
	}
	return nil
}

// settleSale завершает продажу: если в объявлении не осталось количества и открытых заказов, объявление
// и документ становятся Sold. Если количество осталось, документ снова выставлен (Listed).
func (s *OrderService) settleSale(ctx context.Context, tx uow.TX, orderRepo OrderRepository, order *domain.Order) error {
	listingRepo, err := txRepo[ListingRepository](tx, repoargs.ListingRepoName)
	if err != nil {
		return err
	}
	documentRepo, err := txRepo[DocumentRepository](tx, repoargs.DocumentRepoName)
	if err != nil {
		return err
	}

	for _, d := range order.Details {
		listing, lErr := listingRepo.FindByIDForUpdate(ctx, d.ListingID)
		if lErr != nil {
			return lErr //nolint:wrapcheck
		}
		open, cErr := orderRepo.CountOpenByListing(ctx, listing.ID, order.ID)
		if cErr != nil {
			return cErr //nolint:wrapcheck
		}
		if open > 0 {
			continue
		}

		if listing.Quantity > 0 {
			next := domain.DocumentStatusInStock
			if listing.IsActive() {
				next = domain.DocumentStatusListed
			}
			if dErr := moveDocument(ctx, documentRepo, d.DocumentID, domain.DocumentStatusPendingSale, next); dErr != nil {
				return dErr
			}
			continue
		}

		if listing.Status == domain.ListingStatusActive {
			expected := listing.Version
			if lErr = listing.TransitionTo(domain.ListingStatusSold); lErr != nil {
				return lErr //nolint:wrapcheck
			}
			if _, lErr = listingRepo.Save(ctx, listing, expected); lErr != nil {
				return lErr //nolint:wrapcheck
			}
		}
		if dErr := moveDocument(ctx, documentRepo, d.DocumentID, domain.DocumentStatusPendingSale, domain.DocumentStatusSold); dErr != nil {
			return dErr
		}
	}
	return nil
}

// moveDocument переводит документ из статуса from в статус to. Документ в другом статусе не изменяется.
func moveDocument(
	ctx context.Context,
	documentRepo DocumentRepository,
	documentID int64,
	from, to domain.DocumentStatus,
) error {
	doc, err := documentRepo.FindByIDForUpdate(ctx, documentID)
	if err != nil {
		return err //nolint:wrapcheck
	}
	if doc.Status != from {
		return nil
	}
	if err = doc.TransitionTo(to); err != nil {
		return err //nolint:wrapcheck
	}
	_, err = documentRepo.Save(ctx, doc)
	return err //nolint:wrapcheck
}

// Get возвращает заказ участнику или администратору.
func (s *OrderService) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if _, ok := order.PartyOf(actor.ID); !ok && !actor.IsAdmin() {
		return nil, forbidden("user %d is not a participant of order %d", actor.ID, id)
	}
	return order, nil
}

// List возвращает заказы пользователя в роли покупателя, продавца или в любой роли.
func (s *OrderService) List(
	ctx context.Context,
	actor domain.Actor,
	filter repoargs.OrderFilter,
) (*repoargs.PageResult[domain.Order], error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("unknown order status %q", filter.Status))
	}
	filter.UserID = actor.ID
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return repoargs.NewPageResult(orders, total, filter.Page), nil
}
