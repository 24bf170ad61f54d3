package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
	"github.com/shopspring/decimal"
)

type ListingService struct {
	uow         uow.UOW
	listingRepo ListingRepository
	notifier    Notifier
}

func NewListingService(u uow.UOW, notifier Notifier) (*ListingService, error) {
	listingRepo, err := repo[ListingRepository](u, repoargs.ListingRepoName)
	if err != nil {
		return nil, err
	}
	return &ListingService{
		uow:         u,
		listingRepo: listingRepo,
		notifier:    notifier,
	}, nil
}

type CreateListingArgs struct {
	DocumentID         int64
	Type               domain.ListingType
	Price              decimal.Decimal
	Quantity           int
	DesiredDocumentIDs []int64
}

// UpdateListingArgs новые условия объявления. Version - версия объявления, прочитанная клиентом.
type UpdateListingArgs struct {
	Price              decimal.Decimal
	Quantity           int
	DesiredDocumentIDs []int64
	Version            int64
}

// Create выставляет документ владельца на продажу или обмен. Документ должен быть на складе (InStock)
// и переводится в статус Listed в той же транзакции.
func (s *ListingService) Create(ctx context.Context, actor domain.Actor, args CreateListingArgs) (*domain.Listing, error) {
	if err := domain.ValidateListingTerms(args.Type, args.Price, args.Quantity, args.DesiredDocumentIDs); err != nil {
		return nil, err //nolint:wrapcheck
	}
	if args.Quantity < 1 {
		return nil, domain.NewValidationError("quantity", "must be greater than 0")
	}

	var listing *domain.Listing
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		listingRepo, err := txRepo[ListingRepository](tx, repoargs.ListingRepoName)
		if err != nil {
			return err
		}
		documentRepo, err := txRepo[DocumentRepository](tx, repoargs.DocumentRepoName)
		if err != nil {
			return err
		}

		doc, err := documentRepo.FindByIDForUpdate(c, args.DocumentID)
		if err != nil {
			return err //nolint:wrapcheck
		}
		if doc.IsDeleted {
			return fmt.Errorf("%w: document %d", domain.ErrRecordNotFound, args.DocumentID)
		}
		if doc.OwnerID != actor.ID {
			return forbidden("document %d belongs to another user", doc.ID)
		}
		if doc.Status != domain.DocumentStatusInStock {
			return domain.NewInvalidTransitionError(
				domain.StatusDomainDocument, string(doc.Status), string(domain.DocumentStatusListed))
		}
		if err = doc.TransitionTo(domain.DocumentStatusListed); err != nil {
			return err //nolint:wrapcheck
		}
		if _, err = documentRepo.Save(c, doc); err != nil {
			return err //nolint:wrapcheck
		}

		listing, err = listingRepo.Create(c, repoargs.CreateListing{
			DocumentID:         doc.ID,
			OwnerID:            actor.ID,
			Type:               args.Type,
			Price:              args.Price,
			Quantity:           args.Quantity,
			DesiredDocumentIDs: args.DesiredDocumentIDs,
		})
		return err //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("creating listing: %w", txErr)
	}
	return listing, nil
}

// Update меняет условия активного объявления. Если версия объявления изменилась после чтения клиентом,
// возвращает domain.ErrConcurrency.
func (s *ListingService) Update(
	ctx context.Context,
	actor domain.Actor,
	id int64,
	args UpdateListingArgs,
) (*domain.Listing, error) {
	var saved *domain.Listing
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		listingRepo, err := txRepo[ListingRepository](tx, repoargs.ListingRepoName)
		if err != nil {
			return err
		}
		listing, err := lockListing(c, listingRepo, id)
		if err != nil {
			return err
		}
		if listing.OwnerID != actor.ID {
			return forbidden("listing %d belongs to another user", id)
		}
		if listing.Status != domain.ListingStatusActive {
			return fmt.Errorf("%w: listing %d is %s and can no longer be edited",
				domain.ErrInvalidTransition, id, listing.Status)
		}
		if listing.Version != args.Version {
			return fmt.Errorf("%w: listing %d has version %d, got %d",
				domain.ErrConcurrency, id, listing.Version, args.Version)
		}
		if err = domain.ValidateListingTerms(
			listing.Type, args.Price, args.Quantity, args.DesiredDocumentIDs,
		); err != nil {
			return err //nolint:wrapcheck
		}

		listing.Price = args.Price
		listing.Quantity = args.Quantity
		listing.DesiredDocumentIDs = args.DesiredDocumentIDs
		saved, err = listingRepo.Save(c, listing, args.Version)
		return err //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("updating listing %d: %w", id, txErr)
	}
	return saved, nil
}

// Cancel снимает объявление (мягкое удаление) по запросу владельца или администратора. Документ возвращается
// на склад, только если он не участвует в заказах.
func (s *ListingService) Cancel(ctx context.Context, actor domain.Actor, id int64) (*domain.Listing, error) {
	var saved *domain.Listing
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		listingRepo, err := txRepo[ListingRepository](tx, repoargs.ListingRepoName)
		if err != nil {
			return err
		}
		documentRepo, err := txRepo[DocumentRepository](tx, repoargs.DocumentRepoName)
		if err != nil {
			return err
		}

		listing, err := lockListing(c, listingRepo, id)
		if err != nil {
			return err
		}
		if listing.OwnerID != actor.ID && !actor.IsAdmin() {
			return forbidden("listing %d belongs to another user", id)
		}
		saved, err = withdrawListing(c, listingRepo, documentRepo, listing)
		return err
	})
	if txErr != nil {
		return nil, fmt.Errorf("cancelling listing %d: %w", id, txErr)
	}
	return saved, nil
}

// Reject отклоняет объявление модератором и уведомляет владельца.
func (s *ListingService) Reject(ctx context.Context, actor domain.Actor, id int64, reason string) (*domain.Listing, error) {
	if !actor.IsAdmin() {
		return nil, forbidden("only administrators can reject listings")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "reason is required")
	}

	var saved *domain.Listing
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		listingRepo, err := txRepo[ListingRepository](tx, repoargs.ListingRepoName)
		if err != nil {
			return err
		}
		documentRepo, err := txRepo[DocumentRepository](tx, repoargs.DocumentRepoName)
		if err != nil {
			return err
		}

		listing, err := lockListing(c, listingRepo, id)
		if err != nil {
			return err
		}
		if err = listing.TransitionTo(domain.ListingStatusRejected); err != nil {
			return err //nolint:wrapcheck
		}
		listing.RejectReason = reason

		if saved, err = listingRepo.Save(c, listing, listing.Version); err != nil {
			return err //nolint:wrapcheck
		}
		if err = returnDocumentToStock(c, documentRepo, listing.DocumentID); err != nil {
			return err
		}
		_, err = s.notifier.Notify(c, tx, listing.OwnerID, domain.NotificationListingRejected, listing.ID)
		return err //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("rejecting listing %d: %w", id, txErr)
	}
	return saved, nil
}

func (s *ListingService) Get(ctx context.Context, id int64) (*domain.Listing, error) {
	return s.listingRepo.FindByID(ctx, id) //nolint:wrapcheck
}

// List возвращает страницу объявлений. Объявления в любом статусе видны только самому владельцу
// (filter.OwnerID) и администратору, остальным только активные.
func (s *ListingService) List(
	ctx context.Context,
	actor domain.Actor,
	filter repoargs.ListingFilter,
) (*repoargs.PageResult[domain.Listing], error) {
	filter.AllStatuses = filter.OwnerID > 0 && (filter.OwnerID == actor.ID || actor.IsAdmin())
	listings, total, err := s.listingRepo.List(ctx, filter)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return repoargs.NewPageResult(listings, total, filter.Page), nil
}

// lockListing блокирует не удаленное объявление.
func lockListing(ctx context.Context, listingRepo ListingRepository, id int64) (*domain.Listing, error) {
	listing, err := listingRepo.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if listing.IsDeleted {
		return nil, fmt.Errorf("%w: listing %d", domain.ErrRecordNotFound, id)
	}
	return listing, nil
}

// returnDocumentToStock возвращает документ на склад, если он выставлен (Listed). Документы в заказах не трогаются.
// withdrawListing снимает заблокированное объявление с продажи: статус Cancelled, мягкое удаление,
// документ возвращается на склад, если он не участвует в заказах.
func withdrawListing(
	ctx context.Context,
	listingRepo ListingRepository,
	documentRepo DocumentRepository,
	listing *domain.Listing,
) (*domain.Listing, error) {
	if err := listing.TransitionTo(domain.ListingStatusCancelled); err != nil {
		return nil, err //nolint:wrapcheck
	}
	now := time.Now().UTC()
	listing.IsDeleted = true
	listing.DeletedAt = &now

	saved, err := listingRepo.Save(ctx, listing, listing.Version)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if err = returnDocumentToStock(ctx, documentRepo, listing.DocumentID); err != nil {
		return nil, err
	}
	return saved, nil
}

func returnDocumentToStock(ctx context.Context, documentRepo DocumentRepository, documentID int64) error {
	doc, err := documentRepo.FindByIDForUpdate(ctx, documentID)
	if err != nil {
		return err //nolint:wrapcheck
	}
	if doc.Status != domain.DocumentStatusListed {
		return nil
	}
	if err = doc.TransitionTo(domain.DocumentStatusInStock); err != nil {
		return err //nolint:wrapcheck
	}
	_, err = documentRepo.Save(ctx, doc)
	return err //nolint:wrapcheck
}
