package pgrepo

import (
	"context"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const listingColumns = `l.id, l.created_at, l.updated_at, l.document_id, l.owner_id, l.type, l.price, l.quantity,
	l.desired_document_ids, l.status, l.reject_reason, l.version, l.is_deleted, l.deleted_at`

type ListingRepository struct {
	conn uow.DBTX
}

func NewListingRepository(conn uow.DBTX) *ListingRepository {
	return &ListingRepository{conn: conn}
}

// Create создает активное объявление с версией 1.
func (r *ListingRepository) Create(ctx context.Context, args repoargs.CreateListing) (*domain.Listing, error) {
	desired := args.DesiredDocumentIDs
	if desired == nil {
		desired = []int64{}
	}
	listing, err := scanListing(r.conn.QueryRow(ctx, `
		INSERT INTO listings AS l (document_id, owner_id, type, price, quantity, desired_document_ids, status, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		RETURNING `+listingColumns,
		args.DocumentID, args.OwnerID, args.Type, args.Price, args.Quantity, desired, domain.ListingStatusActive,
	))
	if err != nil {
		return nil, convertErr(err, "creating listing for document %d", args.DocumentID)
	}
	return listing, nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id int64) (*domain.Listing, error) {
	listing, err := scanListing(r.conn.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings l WHERE l.id = $1 AND l.is_deleted = FALSE`, id))
	if err != nil {
		return nil, convertErr(err, "finding listing %d", id)
	}
	return listing, nil
}

// FindByIDForUpdate блокирует строку объявления до конца транзакции. Удаленные объявления тоже возвращаются:
// отмена заказа должна вернуть количество и в снятое с продажи объявление.
func (r *ListingRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Listing, error) {
	listing, err := scanListing(r.conn.QueryRow(ctx,
		`SELECT `+listingColumns+` FROM listings l WHERE l.id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, convertErr(err, "locking listing %d", id)
	}
	return listing, nil
}

// Save сохраняет объявление, если его версия в БД равна expectedVersion, и увеличивает версию на единицу.
// Если версия не совпала, возвращает domain.ErrConcurrency.
func (r *ListingRepository) Save(
	ctx context.Context,
	listing *domain.Listing,
	expectedVersion int64,
) (*domain.Listing, error) {
	desired := listing.DesiredDocumentIDs
	if desired == nil {
		desired = []int64{}
	}
	saved, err := scanListing(r.conn.QueryRow(ctx, `
		UPDATE listings AS l
		SET type = $3, price = $4, quantity = $5, desired_document_ids = $6, status = $7, reject_reason = $8,
		    is_deleted = $9, deleted_at = $10, version = l.version + 1, updated_at = now()
		WHERE l.id = $1 AND l.version = $2
		RETURNING `+listingColumns,
		listing.ID, expectedVersion, listing.Type, listing.Price, listing.Quantity, desired, listing.Status,
		listing.RejectReason, listing.IsDeleted, listing.DeletedAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(domain.ErrConcurrency,
			"[repository/saving listing %d] version %d is stale", listing.ID, expectedVersion)
	}
	if err != nil {
		return nil, convertErr(err, "saving listing %d", listing.ID)
	}
	return saved, nil
}

// List возвращает страницу объявлений и общее количество объявлений, удовлетворяющих фильтру.
// Объявления удаленных пользователей не возвращаются.
func (r *ListingRepository) List(
	ctx context.Context,
	filter repoargs.ListingFilter,
) ([]domain.Listing, int64, error) {
	w := listingsWhere(filter)
	total, err := count(ctx, r.conn, `SELECT count(*)`+listingsFrom+w.String(), w.args...)
	if err != nil {
		return nil, 0, convertErr(err, "counting listings")
	}

	query, args := w.paginate(
		`SELECT `+listingColumns+listingsFrom+w.String()+` ORDER BY l.created_at DESC, l.id DESC`,
		filter.Page,
	)
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, convertErr(err, "listing listings")
	}
	listings, err := collect(rows, scanListing)
	if err != nil {
		return nil, 0, convertErr(err, "scanning listings")
	}
	return listings, total, nil
}

const listingsFrom = ` FROM listings l
	JOIN documents d ON d.id = l.document_id
	JOIN users u ON u.id = l.owner_id`

// listingsWhere условия выборки объявлений. Без AllStatuses возвращаются только активные.
func listingsWhere(filter repoargs.ListingFilter) *whereBuilder {
	w := &whereBuilder{}
	w.add("l.is_deleted = FALSE")
	w.add("u.is_deleted = FALSE")
	if filter.OwnerID > 0 {
		w.add("l.owner_id = ?", filter.OwnerID)
	}
	if !filter.AllStatuses {
		w.add("l.status = ?", domain.ListingStatusActive)
	}
	if filter.Type != "" {
		w.add("l.type = ?", filter.Type)
	}
	if filter.CategoryID > 0 {
		w.add("d.category_id = ?", filter.CategoryID)
	}
	if filter.Title != "" {
		w.add("d.title ILIKE ?", "%"+filter.Title+"%")
	}
	return w
}

func (r *ListingRepository) ActiveIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id FROM listings
		WHERE owner_id = $1 AND status = $2 AND is_deleted = FALSE
		ORDER BY id`, ownerID, domain.ListingStatusActive)
	if err != nil {
		return nil, convertErr(err, "listing active listings of user %d", ownerID)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, convertErr(err, "scanning active listings of user %d", ownerID)
	}
	return ids, nil
}

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(
		&l.ID,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.DocumentID,
		&l.OwnerID,
		&l.Type,
		&l.Price,
		&l.Quantity,
		&l.DesiredDocumentIDs,
		&l.Status,
		&l.RejectReason,
		&l.Version,
		&l.IsDeleted,
		&l.DeletedAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &l, nil
}
