package pgrepo

import (
	"context"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const reviewColumns = `id, created_at, updated_at, order_id, reviewer_id, seller_id, rating, comment,
	is_deleted, deleted_at`

type ReviewRepository struct {
	conn uow.DBTX
}

func NewReviewRepository(conn uow.DBTX) *ReviewRepository {
	return &ReviewRepository{conn: conn}
}

// Create сохраняет отзыв. Второй отзыв на тот же заказ нарушает уникальный индекс reviews_order_uidx
// и возвращает domain.ErrDuplicateKey.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	created, err := scanReview(r.conn.QueryRow(ctx, `
		INSERT INTO reviews (order_id, reviewer_id, seller_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+reviewColumns,
		review.OrderID, review.ReviewerID, review.SellerID, review.Rating, review.Comment,
	))
	if err != nil {
		return nil, convertErr(err, "creating review for order %d", review.OrderID)
	}
	return created, nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := scanReview(r.conn.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1 AND is_deleted = FALSE`, id))
	if err != nil {
		return nil, convertErr(err, "finding review %d", id)
	}
	return review, nil
}

// ExistsForOrder проверяет наличие отзыва на заказ, включая удаленные.
func (r *ReviewRepository) ExistsForOrder(ctx context.Context, orderID int64) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE order_id = $1)`, orderID).Scan(&exists)
	if err != nil {
		return false, convertErr(err, "checking review for order %d", orderID)
	}
	return exists, nil
}

func (r *ReviewRepository) Update(ctx context.Context, id int64, rating int, comment string) (*domain.Review, error) {
	review, err := scanReview(r.conn.QueryRow(ctx, `
		UPDATE reviews SET rating = $2, comment = $3, updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING `+reviewColumns, id, rating, comment))
	if err != nil {
		return nil, convertErr(err, "updating review %d", id)
	}
	return review, nil
}

func (r *ReviewRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `
		UPDATE reviews SET is_deleted = TRUE, deleted_at = now(), updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return convertErr(err, "deleting review %d", id)
	}
	return requireAffected(tag, "deleting review %d", id)
}

func (r *ReviewRepository) ListBySeller(
	ctx context.Context,
	filter repoargs.ReviewFilter,
) ([]domain.Review, int64, error) {
	w := &whereBuilder{}
	w.add("is_deleted = FALSE")
	w.add("seller_id = ?", filter.SellerID)

	total, err := count(ctx, r.conn, `SELECT count(*) FROM reviews`+w.String(), w.args...)
	if err != nil {
		return nil, 0, convertErr(err, "counting reviews of seller %d", filter.SellerID)
	}

	query, args := w.paginate(
		`SELECT `+reviewColumns+` FROM reviews`+w.String()+` ORDER BY created_at DESC, id DESC`,
		filter.Page,
	)
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, convertErr(err, "listing reviews of seller %d", filter.SellerID)
	}
	reviews, err := collect(rows, scanReview)
	if err != nil {
		return nil, 0, convertErr(err, "scanning reviews of seller %d", filter.SellerID)
	}
	return reviews, total, nil
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var r domain.Review
	err := row.Scan(
		&r.ID,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.OrderID,
		&r.ReviewerID,
		&r.SellerID,
		&r.Rating,
		&r.Comment,
		&r.IsDeleted,
		&r.DeletedAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &r, nil
}
