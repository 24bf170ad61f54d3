package pgrepo

import (
	"context"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const documentColumns = `id, created_at, updated_at, owner_id, category_id, title, author, condition, description,
	status, is_deleted, deleted_at`

type DocumentRepository struct {
	conn uow.DBTX
}

func NewDocumentRepository(conn uow.DBTX) *DocumentRepository {
	return &DocumentRepository{conn: conn}
}

func (d *DocumentRepository) Create(ctx context.Context, args repoargs.CreateDocument) (*domain.Document, error) {
	doc, err := scanDocument(d.conn.QueryRow(ctx, `
		INSERT INTO documents (owner_id, category_id, title, author, condition, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+documentColumns,
		args.OwnerID, args.CategoryID, args.Title, args.Author, args.Condition, args.Description,
		domain.DocumentStatusInStock,
	))
	if err != nil {
		return nil, convertErr(err, "creating document for owner %d", args.OwnerID)
	}
	return doc, nil
}

func (d *DocumentRepository) FindByID(ctx context.Context, id int64) (*domain.Document, error) {
	doc, err := scanDocument(d.conn.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1 AND is_deleted = FALSE`, id))
	if err != nil {
		return nil, convertErr(err, "finding document %d", id)
	}
	return doc, nil
}

// FindByIDForUpdate блокирует строку документа до конца транзакции. Удаленные документы тоже возвращаются,
// так как на них могут ссылаться открытые заказы.
func (d *DocumentRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Document, error) {
	doc, err := scanDocument(d.conn.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, convertErr(err, "locking document %d", id)
	}
	return doc, nil
}

// Save сохраняет изменяемые поля документа, включая статус и признак удаления.
func (d *DocumentRepository) Save(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	saved, err := scanDocument(d.conn.QueryRow(ctx, `
		UPDATE documents
		SET category_id = $2, title = $3, author = $4, condition = $5, description = $6, status = $7,
		    is_deleted = $8, deleted_at = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+documentColumns,
		doc.ID, doc.CategoryID, doc.Title, doc.Author, doc.Condition, doc.Description, doc.Status,
		doc.IsDeleted, doc.DeletedAt,
	))
	if err != nil {
		return nil, convertErr(err, "saving document %d", doc.ID)
	}
	return saved, nil
}

func (d *DocumentRepository) List(
	ctx context.Context,
	filter repoargs.DocumentFilter,
) ([]domain.Document, int64, error) {
	w := &whereBuilder{}
	w.add("is_deleted = FALSE")
	if filter.OwnerID > 0 {
		w.add("owner_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}

	total, err := count(ctx, d.conn, `SELECT count(*) FROM documents`+w.String(), w.args...)
	if err != nil {
		return nil, 0, convertErr(err, "counting documents")
	}

	query, args := w.paginate(
		`SELECT `+documentColumns+` FROM documents`+w.String()+` ORDER BY created_at DESC, id DESC`,
		filter.Page,
	)
	rows, err := d.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, convertErr(err, "listing documents")
	}
	docs, err := collect(rows, scanDocument)
	if err != nil {
		return nil, 0, convertErr(err, "scanning documents")
	}
	return docs, total, nil
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	err := row.Scan(
		&doc.ID,
		&doc.CreatedAt,
		&doc.UpdatedAt,
		&doc.OwnerID,
		&doc.CategoryID,
		&doc.Title,
		&doc.Author,
		&doc.Condition,
		&doc.Description,
		&doc.Status,
		&doc.IsDeleted,
		&doc.DeletedAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &doc, nil
}
