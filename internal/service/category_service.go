package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
)

type CategoryService struct {
	categoryRepo CategoryRepository
}

func NewCategoryService(u uow.UOW) (*CategoryService, error) {
	categoryRepo, err := repo[CategoryRepository](u, repoargs.CategoryRepoName)
	if err != nil {
		return nil, err
	}
	return &CategoryService{categoryRepo: categoryRepo}, nil
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx) //nolint:wrapcheck
}

func (s *CategoryService) Create(ctx context.Context, actor domain.Actor, name, description string) (*domain.Category, error) {
	if !actor.IsAdmin() {
		return nil, forbidden("only administrators can manage categories")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	category, err := s.categoryRepo.Create(ctx, name, description)
	if errors.Is(err, domain.ErrDuplicateKey) {
		return nil, conflict("category %q already exists", name)
	}
	return category, err //nolint:wrapcheck
}

func (s *CategoryService) Update(
	ctx context.Context,
	actor domain.Actor,
	id int64,
	name, description string,
) (*domain.Category, error) {
	if !actor.IsAdmin() {
		return nil, forbidden("only administrators can manage categories")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	category, err := s.categoryRepo.Update(ctx, id, name, description)
	if errors.Is(err, domain.ErrDuplicateKey) {
		return nil, conflict("category %q already exists", name)
	}
	return category, err //nolint:wrapcheck
}

func (s *CategoryService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return forbidden("only administrators can manage categories")
	}
	return s.categoryRepo.SoftDelete(ctx, id) //nolint:wrapcheck
}
