package pgrepo

import (
	"context"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const evidenceColumns = `id, created_at, review_id, object_key, url, content_type, is_deleted, deleted_at`

type EvidenceRepository struct {
	conn uow.DBTX
}

func NewEvidenceRepository(conn uow.DBTX) *EvidenceRepository {
	return &EvidenceRepository{conn: conn}
}

func (e *EvidenceRepository) Create(ctx context.Context, ev *domain.ReviewEvidence) (*domain.ReviewEvidence, error) {
	created, err := scanEvidence(e.conn.QueryRow(ctx, `
		INSERT INTO review_evidence (review_id, object_key, url, content_type)
		VALUES ($1, $2, $3, $4)
		RETURNING `+evidenceColumns,
		ev.ReviewID, ev.ObjectKey, ev.URL, ev.ContentType,
	))
	if err != nil {
		return nil, convertErr(err, "creating evidence for review %d", ev.ReviewID)
	}
	return created, nil
}

func (e *EvidenceRepository) FindByID(ctx context.Context, id int64) (*domain.ReviewEvidence, error) {
	ev, err := scanEvidence(e.conn.QueryRow(ctx,
		`SELECT `+evidenceColumns+` FROM review_evidence WHERE id = $1 AND is_deleted = FALSE`, id))
	if err != nil {
		return nil, convertErr(err, "finding evidence %d", id)
	}
	return ev, nil
}

func (e *EvidenceRepository) ListByReview(ctx context.Context, reviewID int64) ([]domain.ReviewEvidence, error) {
	rows, err := e.conn.Query(ctx, `
		SELECT `+evidenceColumns+` FROM review_evidence
		WHERE review_id = $1 AND is_deleted = FALSE
		ORDER BY id`, reviewID)
	if err != nil {
		return nil, convertErr(err, "listing evidence of review %d", reviewID)
	}
	items, err := collect(rows, scanEvidence)
	if err != nil {
		return nil, convertErr(err, "scanning evidence of review %d", reviewID)
	}
	return items, nil
}

func (e *EvidenceRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := e.conn.Exec(ctx,
		`UPDATE review_evidence SET is_deleted = TRUE, deleted_at = now() WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return convertErr(err, "deleting evidence %d", id)
	}
	return requireAffected(tag, "deleting evidence %d", id)
}

func scanEvidence(row pgx.Row) (*domain.ReviewEvidence, error) {
	var ev domain.ReviewEvidence
	err := row.Scan(
		&ev.ID, &ev.CreatedAt, &ev.ReviewID, &ev.ObjectKey, &ev.URL, &ev.ContentType, &ev.IsDeleted, &ev.DeletedAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &ev, nil
}
