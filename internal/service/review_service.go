package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
)

const (
	MinRating = 1
	MaxRating = 5

	MaxEvidenceSize = 10 << 20
)

var evidenceContentTypes = []string{"image/jpeg", "image/png", "image/webp", "application/pdf"}

type ReviewService struct {
	uow          uow.UOW
	reviewRepo   ReviewRepository
	evidenceRepo EvidenceRepository
	storage      ObjectStorage
	notifier     Notifier
}

func NewReviewService(u uow.UOW, storage ObjectStorage, notifier Notifier) (*ReviewService, error) {
	reviewRepo, err := repo[ReviewRepository](u, repoargs.ReviewRepoName)
	if err != nil {
		return nil, err
	}
	evidenceRepo, err := repo[EvidenceRepository](u, repoargs.EvidenceRepoName)
	if err != nil {
		return nil, err
	}
	return &ReviewService{
		uow:          u,
		reviewRepo:   reviewRepo,
		evidenceRepo: evidenceRepo,
		storage:      storage,
		notifier:     notifier,
	}, nil
}

type CreateReviewArgs struct {
	OrderID int64
	Rating  int
	Comment string
}

type UploadEvidenceArgs struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return domain.NewValidationError("rating", fmt.Sprintf("must be between %d and %d", MinRating, MaxRating))
	}
	return nil
}

// Create оставляет отзыв покупателя о продавце. Отзыв возможен только по завершенному заказу и только
// один на заказ; повторная попытка возвращает domain.ErrConflict.
func (s *ReviewService) Create(ctx context.Context, actor domain.Actor, args CreateReviewArgs) (*domain.Review, error) {
	if err := validateRating(args.Rating); err != nil {
		return nil, err
	}

	var review *domain.Review
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, err := txRepo[OrderRepository](tx, repoargs.OrderRepoName)
		if err != nil {
			return err
		}
		reviewRepo, err := txRepo[ReviewRepository](tx, repoargs.ReviewRepoName)
		if err != nil {
			return err
		}

		order, err := orderRepo.FindByIDForUpdate(c, args.OrderID)
		if err != nil {
			return err //nolint:wrapcheck
		}
		if order.BuyerID != actor.ID {
			return forbidden("only the buyer of order %d can review it", order.ID)
		}
		if order.Status != domain.OrderStatusCompleted {
			return forbidden("order %d is %s, reviews are allowed only for completed orders", order.ID, order.Status)
		}

		exists, err := reviewRepo.ExistsForOrder(c, order.ID)
		if err != nil {
			return err //nolint:wrapcheck
		}
		if exists {
			return conflict("order %d already has a review", order.ID)
		}

		review, err = reviewRepo.Create(c, &domain.Review{
			OrderID:    order.ID,
			ReviewerID: actor.ID,
			SellerID:   order.SellerID,
			Rating:     args.Rating,
			Comment:    args.Comment,
		})
		if errors.Is(err, domain.ErrDuplicateKey) {
			return conflict("order %d already has a review", order.ID)
		}
		if err != nil {
			return err //nolint:wrapcheck
		}

		_, err = s.notifier.Notify(c, tx, order.SellerID, domain.NotificationReviewReceived, review.ID)
		return err //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("creating review: %w", txErr)
	}
	return review, nil
}

// Get возвращает отзыв вместе с не удаленными доказательствами.
func (s *ReviewService) Get(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if review.Evidence, err = s.evidenceRepo.ListByReview(ctx, id); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return review, nil
}

func (s *ReviewService) Update(
	ctx context.Context,
	actor domain.Actor,
	id int64,
	rating int,
	comment string,
) (*domain.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if _, err := s.authored(ctx, actor, id, false); err != nil {
		return nil, err
	}
	return s.reviewRepo.Update(ctx, id, rating, comment) //nolint:wrapcheck
}

// Delete мягко удаляет отзыв. Доступно автору и администратору.
func (s *ReviewService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if _, err := s.authored(ctx, actor, id, true); err != nil {
		return err
	}
	return s.reviewRepo.SoftDelete(ctx, id) //nolint:wrapcheck
}

func (s *ReviewService) ListBySeller(
	ctx context.Context,
	filter repoargs.ReviewFilter,
) (*repoargs.PageResult[domain.Review], error) {
	reviews, total, err := s.reviewRepo.ListBySeller(ctx, filter)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return repoargs.NewPageResult(reviews, total, filter.Page), nil
}

// AddEvidence загружает файл в хранилище и прикрепляет его к отзыву. Если запись сохранить не удалось,
// загруженный объект удаляется.
func (s *ReviewService) AddEvidence(
	ctx context.Context,
	actor domain.Actor,
	reviewID int64,
	args UploadEvidenceArgs,
) (*domain.ReviewEvidence, error) {
	verr := &domain.ValidationError{}
	if !slices.Contains(evidenceContentTypes, args.ContentType) {
		verr.Add("file", fmt.Sprintf("content type %q is not allowed", args.ContentType))
	}
	if args.Size <= 0 || args.Size > MaxEvidenceSize {
		verr.Add("file", fmt.Sprintf("size must be between 1 and %d bytes", MaxEvidenceSize))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.authored(ctx, actor, reviewID, false); err != nil {
		return nil, err
	}

	key, url, err := s.storage.Put(
		ctx, fmt.Sprintf("reviews/%d", reviewID), args.Filename, args.ContentType, args.Size, args.Body)
	if err != nil {
		return nil, fmt.Errorf("uploading evidence for review %d: %w", reviewID, err)
	}

	ev, err := s.evidenceRepo.Create(ctx, &domain.ReviewEvidence{
		ReviewID:    reviewID,
		ObjectKey:   key,
		URL:         url,
		ContentType: args.ContentType,
	})
	if err != nil {
		if rmErr := s.storage.Remove(ctx, key); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
		return nil, fmt.Errorf("saving evidence for review %d: %w", reviewID, err)
	}
	return ev, nil
}

// RemoveEvidence мягко удаляет доказательство. Объект в хранилище сохраняется.
func (s *ReviewService) RemoveEvidence(ctx context.Context, actor domain.Actor, reviewID, evidenceID int64) error {
	if _, err := s.authored(ctx, actor, reviewID, false); err != nil {
		return err
	}
	ev, err := s.evidenceRepo.FindByID(ctx, evidenceID)
	if err != nil {
		return err //nolint:wrapcheck
	}
	if ev.ReviewID != reviewID {
		return fmt.Errorf("%w: evidence %d of review %d", domain.ErrRecordNotFound, evidenceID, reviewID)
	}
	return s.evidenceRepo.SoftDelete(ctx, evidenceID) //nolint:wrapcheck
}

// authored возвращает отзыв, если actor его автор (или администратор при allowAdmin).
func (s *ReviewService) authored(ctx context.Context, actor domain.Actor, id int64, allowAdmin bool) (*domain.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if review.ReviewerID != actor.ID && !(allowAdmin && actor.IsAdmin()) {
		return nil, forbidden("review %d belongs to another user", id)
	}
	return review, nil
}
