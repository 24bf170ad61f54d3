package pgrepo

import (
	"context"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, created_at, updated_at, name, description, is_deleted, deleted_at`

type CategoryRepository struct {
	conn uow.DBTX
}

func NewCategoryRepository(conn uow.DBTX) *CategoryRepository {
	return &CategoryRepository{conn: conn}
}

func (c *CategoryRepository) Create(ctx context.Context, name, description string) (*domain.Category, error) {
	category, err := scanCategory(c.conn.QueryRow(ctx,
		`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING `+categoryColumns,
		name, description))
	if err != nil {
		return nil, convertErr(err, "creating category `%s`", name)
	}
	return category, nil
}

func (c *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := scanCategory(c.conn.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND is_deleted = FALSE`, id))
	if err != nil {
		return nil, convertErr(err, "finding category %d", id)
	}
	return category, nil
}

func (c *CategoryRepository) Update(ctx context.Context, id int64, name, description string) (*domain.Category, error) {
	category, err := scanCategory(c.conn.QueryRow(ctx, `
		UPDATE categories SET name = $2, description = $3, updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING `+categoryColumns, id, name, description))
	if err != nil {
		return nil, convertErr(err, "updating category %d", id)
	}
	return category, nil
}

func (c *CategoryRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := c.conn.Exec(ctx, `
		UPDATE categories SET is_deleted = TRUE, deleted_at = now(), updated_at = now()
		WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return convertErr(err, "deleting category %d", id)
	}
	return requireAffected(tag, "deleting category %d", id)
}

// List возвращает все не удаленные категории в алфавитном порядке.
func (c *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := c.conn.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE is_deleted = FALSE ORDER BY name`)
	if err != nil {
		return nil, convertErr(err, "listing categories")
	}
	categories, err := collect(rows, scanCategory)
	if err != nil {
		return nil, convertErr(err, "scanning categories")
	}
	return categories, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Name, &c.Description, &c.IsDeleted, &c.DeletedAt)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &c, nil
}
