package pgrepo

import (
	"context"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const statusColumns = `id, domain, code, name, sort_order, is_terminal`

type StatusRepository struct {
	conn uow.DBTX
}

func NewStatusRepository(conn uow.DBTX) *StatusRepository {
	return &StatusRepository{conn: conn}
}

// All возвращает весь каталог статусов, упорядоченный по домену и sort_order.
func (s *StatusRepository) All(ctx context.Context) ([]domain.Status, error) {
	rows, err := s.conn.Query(ctx, `SELECT `+statusColumns+` FROM statuses ORDER BY domain, sort_order, id`)
	if err != nil {
		return nil, convertErr(err, "listing statuses")
	}
	statuses, err := collect(rows, scanStatus)
	if err != nil {
		return nil, convertErr(err, "scanning statuses")
	}
	return statuses, nil
}

func (s *StatusRepository) FindByDomain(ctx context.Context, d domain.StatusDomain) ([]domain.Status, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT `+statusColumns+` FROM statuses WHERE domain = $1 ORDER BY sort_order, id`, d)
	if err != nil {
		return nil, convertErr(err, "listing statuses of domain %s", d)
	}
	statuses, err := collect(rows, scanStatus)
	if err != nil {
		return nil, convertErr(err, "scanning statuses of domain %s", d)
	}
	return statuses, nil
}

func (s *StatusRepository) FindByDomainAndCode(
	ctx context.Context,
	d domain.StatusDomain,
	code string,
) (*domain.Status, error) {
	status, err := scanStatus(s.conn.QueryRow(ctx,
		`SELECT `+statusColumns+` FROM statuses WHERE domain = $1 AND code = $2`, d, code))
	if err != nil {
		return nil, convertErr(err, "finding status %s/%s", d, code)
	}
	return status, nil
}

func scanStatus(row pgx.Row) (*domain.Status, error) {
	var st domain.Status
	if err := row.Scan(&st.ID, &st.Domain, &st.Code, &st.Name, &st.SortOrder, &st.IsTerminal); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &st, nil
}
