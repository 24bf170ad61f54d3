package pgrepo

import (
	"context"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const paymentColumns = `id, created_at, order_id, method, amount, status, paid_at, transaction_id`

type PaymentRepository struct {
	conn uow.DBTX
}

func NewPaymentRepository(conn uow.DBTX) *PaymentRepository {
	return &PaymentRepository{conn: conn}
}

// Create сохраняет платеж. Повторный платеж по тому же заказу вернет domain.ErrDuplicateKey.
func (p *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	created, err := scanPayment(p.conn.QueryRow(ctx, `
		INSERT INTO payments (order_id, method, amount, status, paid_at, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+paymentColumns,
		payment.OrderID, payment.Method, payment.Amount, payment.Status, payment.PaidAt, payment.TransactionID,
	))
	if err != nil {
		return nil, convertErr(err, "creating payment for order %d", payment.OrderID)
	}
	return created, nil
}

func (p *PaymentRepository) FindByOrderID(ctx context.Context, orderID int64) (*domain.Payment, error) {
	payment, err := scanPayment(p.conn.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, orderID))
	if err != nil {
		return nil, convertErr(err, "finding payment of order %d", orderID)
	}
	return payment, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.CreatedAt, &p.OrderID, &p.Method, &p.Amount, &p.Status, &p.PaidAt, &p.TransactionID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &p, nil
}
