package pgrepo

import (
	"context"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `o.id, o.created_at, o.updated_at, o.buyer_id, o.seller_id, o.status, o.total_amount,
	o.payment_method, o.shipping_address, o.note, o.reason`

// Позиции заказа читаются вместе с названием документа без фильтра удаленных записей:
// исторические заказы должны разрешаться и после удаления документа.
const orderDetailsQuery = `
	SELECT od.id, od.order_id, od.listing_id, od.document_id, d.title, od.quantity, od.price, od.amount
	FROM order_details od
	JOIN documents d ON d.id = od.document_id
	WHERE od.order_id = ANY($1)
	ORDER BY od.id`

type OrderRepository struct {
	conn uow.DBTX
}

func NewOrderRepository(conn uow.DBTX) *OrderRepository {
	return &OrderRepository{conn: conn}
}

// Create сохраняет заказ и его позиции. Суммы должны быть пересчитаны вызывающей стороной.
func (o *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	created, err := scanOrder(o.conn.QueryRow(ctx, `
		INSERT INTO orders AS o (buyer_id, seller_id, status, total_amount, payment_method, shipping_address, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+orderColumns,
		order.BuyerID, order.SellerID, order.Status, order.TotalAmount, order.PaymentMethod,
		order.ShippingAddress, order.Note,
	))
	if err != nil {
		return nil, convertErr(err, "creating order for buyer %d", order.BuyerID)
	}

	batch := new(pgx.Batch)
	for _, d := range order.Details {
		batch.Queue(`
			INSERT INTO order_details (order_id, listing_id, document_id, quantity, price, amount)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			created.ID, d.ListingID, d.DocumentID, d.Quantity, d.Price, d.Amount,
		)
	}
	br := o.conn.SendBatch(ctx, batch)
	created.Details = make([]domain.OrderDetail, len(order.Details))
	for i, d := range order.Details {
		d.OrderID = created.ID
		if scanErr := br.QueryRow().Scan(&d.ID); scanErr != nil {
			_ = br.Close()
			return nil, convertErr(scanErr, "creating detail #%d of order %d", i, created.ID)
		}
		created.Details[i] = d
	}
	if closeErr := br.Close(); closeErr != nil {
		return nil, convertErr(closeErr, "creating details of order %d", created.ID)
	}
	return created, nil
}

// FindByID возвращает заказ вместе с позициями.
func (o *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	return o.findOne(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id)
}

// FindByIDForUpdate возвращает заказ с позициями, блокируя строку заказа до конца транзакции.
func (o *OrderRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	return o.findOne(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1 FOR UPDATE`, id)
}

func (o *OrderRepository) findOne(ctx context.Context, query string, id int64) (*domain.Order, error) {
	order, err := scanOrder(o.conn.QueryRow(ctx, query, id))
	if err != nil {
		return nil, convertErr(err, "finding order %d", id)
	}
	orders := []domain.Order{*order}
	if detErr := o.attachDetails(ctx, orders); detErr != nil {
		return nil, detErr
	}
	return &orders[0], nil
}

func (o *OrderRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	status domain.OrderStatus,
	reason string,
) error {
	tag, err := o.conn.Exec(ctx,
		`UPDATE orders SET status = $2, reason = $3, updated_at = now() WHERE id = $1`, id, status, reason)
	if err != nil {
		return convertErr(err, "updating status of order %d", id)
	}
	return requireAffected(tag, "updating status of order %d", id)
}

// List возвращает страницу заказов пользователя, отсортированных по дате создания по убыванию.
func (o *OrderRepository) List(ctx context.Context, filter repoargs.OrderFilter) ([]domain.Order, int64, error) {
	w := &whereBuilder{}
	switch filter.Party {
	case domain.OrderPartyBuyer:
		w.add("o.buyer_id = ?", filter.UserID)
	case domain.OrderPartySeller:
		w.add("o.seller_id = ?", filter.UserID)
	default:
		w.add("(o.buyer_id = ? OR o.seller_id = ?)", filter.UserID, filter.UserID)
	}
	if filter.Status != "" {
		w.add("o.status = ?", filter.Status)
	}

	total, err := count(ctx, o.conn, `SELECT count(*) FROM orders o`+w.String(), w.args...)
	if err != nil {
		return nil, 0, convertErr(err, "counting orders of user %d", filter.UserID)
	}

	query, args := w.paginate(
		`SELECT `+orderColumns+` FROM orders o`+w.String()+` ORDER BY o.created_at DESC, o.id DESC`,
		filter.Page,
	)
	rows, err := o.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, convertErr(err, "listing orders of user %d", filter.UserID)
	}
	orders, err := collect(rows, scanOrder)
	if err != nil {
		return nil, 0, convertErr(err, "scanning orders of user %d", filter.UserID)
	}
	if detErr := o.attachDetails(ctx, orders); detErr != nil {
		return nil, 0, detErr
	}
	return orders, total, nil
}

// CountOpenByListing считает незавершенные заказы с позициями из объявления listingID, не считая заказ exceptOrderID.
func (o *OrderRepository) CountOpenByListing(ctx context.Context, listingID, exceptOrderID int64) (int64, error) {
	open := make([]string, 0)
	for _, s := range domain.OpenOrderStatuses() {
		open = append(open, string(s))
	}
	total, err := count(ctx, o.conn, `
		SELECT count(DISTINCT o.id)
		FROM orders o
		JOIN order_details od ON od.order_id = o.id
		WHERE od.listing_id = $1 AND o.id <> $2 AND o.status = ANY($3)`,
		listingID, exceptOrderID, open,
	)
	if err != nil {
		return 0, convertErr(err, "counting open orders of listing %d", listingID)
	}
	return total, nil
}

func (o *OrderRepository) attachDetails(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
		index[order.ID] = i
	}

	rows, err := o.conn.Query(ctx, orderDetailsQuery, ids)
	if err != nil {
		return convertErr(err, "getting details of orders %v", ids)
	}
	details, err := collect(rows, scanOrderDetail)
	if err != nil {
		return convertErr(err, "scanning details of orders %v", ids)
	}
	for _, d := range details {
		i := index[d.OrderID]
		orders[i].Details = append(orders[i].Details, d)
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.BuyerID,
		&order.SellerID,
		&order.Status,
		&order.TotalAmount,
		&order.PaymentMethod,
		&order.ShippingAddress,
		&order.Note,
		&order.Reason,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &order, nil
}

func scanOrderDetail(row pgx.Row) (*domain.OrderDetail, error) {
	var d domain.OrderDetail
	err := row.Scan(
		&d.ID, &d.OrderID, &d.ListingID, &d.DocumentID, &d.DocumentTitle, &d.Quantity, &d.Price, &d.Amount,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &d, nil
}
