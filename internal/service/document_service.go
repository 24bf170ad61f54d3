package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
)

type DocumentService struct {
	uow          uow.UOW
	documentRepo DocumentRepository
	categoryRepo CategoryRepository
}

func NewDocumentService(u uow.UOW) (*DocumentService, error) {
	documentRepo, err := repo[DocumentRepository](u, repoargs.DocumentRepoName)
	if err != nil {
		return nil, err
	}
	categoryRepo, err := repo[CategoryRepository](u, repoargs.CategoryRepoName)
	if err != nil {
		return nil, err
	}
	return &DocumentService{
		uow:          u,
		documentRepo: documentRepo,
		categoryRepo: categoryRepo,
	}, nil
}

type DocumentArgs struct {
	CategoryID  int64
	Title       string
	Author      string
	Condition   domain.DocumentCondition
	Description string
}

func (a DocumentArgs) validate() error {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(a.Title) == "" {
		verr.Add("title", "must not be empty")
	}
	if !a.Condition.IsValid() {
		verr.Add("condition", "must be one of new, like_new, good, fair, poor")
	}
	return verr.OrNil()
}

func (s *DocumentService) Create(ctx context.Context, actor domain.Actor, args DocumentArgs) (*domain.Document, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, s.categoryRepo, args.CategoryID); err != nil {
		return nil, err
	}
	return s.documentRepo.Create(ctx, repoargs.CreateDocument{ //nolint:wrapcheck
		OwnerID:     actor.ID,
		CategoryID:  args.CategoryID,
		Title:       strings.TrimSpace(args.Title),
		Author:      strings.TrimSpace(args.Author),
		Condition:   args.Condition,
		Description: args.Description,
	})
}

// Get возвращает документ владельцу или администратору.
func (s *DocumentService) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Document, error) {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if doc.OwnerID != actor.ID && !actor.IsAdmin() {
		return nil, forbidden("document %d belongs to another user", id)
	}
	return doc, nil
}

// ListOwn возвращает документы пользователя actor.
func (s *DocumentService) ListOwn(
	ctx context.Context,
	actor domain.Actor,
	filter repoargs.DocumentFilter,
) (*repoargs.PageResult[domain.Document], error) {
	filter.OwnerID = actor.ID
	docs, total, err := s.documentRepo.List(ctx, filter)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return repoargs.NewPageResult(docs, total, filter.Page), nil
}

// Update изменяет описание документа. Редактировать можно только документ на складе (InStock).
func (s *DocumentService) Update(
	ctx context.Context,
	actor domain.Actor,
	id int64,
	args DocumentArgs,
) (*domain.Document, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}

	var saved *domain.Document
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		documentRepo, err := txRepo[DocumentRepository](tx, repoargs.DocumentRepoName)
		if err != nil {
			return err
		}
		categoryRepo, err := txRepo[CategoryRepository](tx, repoargs.CategoryRepoName)
		if err != nil {
			return err
		}

		doc, err := s.lockOwned(c, documentRepo, actor, id, false)
		if err != nil {
			return err
		}
		if doc.Status != domain.DocumentStatusInStock {
			return conflict("document %d can only be edited while %s, current status is %s",
				id, domain.DocumentStatusInStock, doc.Status)
		}
		if err = s.ensureCategory(c, categoryRepo, args.CategoryID); err != nil {
			return err
		}

		doc.CategoryID = args.CategoryID
		doc.Title = strings.TrimSpace(args.Title)
		doc.Author = strings.TrimSpace(args.Author)
		doc.Condition = args.Condition
		doc.Description = args.Description
		saved, err = documentRepo.Save(c, doc)
		return err //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("updating document %d: %w", id, txErr)
	}
	return saved, nil
}

// Delete мягко удаляет документ, переводя его в статус Cancelled. Возможно только для документа на складе.
func (s *DocumentService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		documentRepo, err := txRepo[DocumentRepository](tx, repoargs.DocumentRepoName)
		if err != nil {
			return err
		}
		doc, err := s.lockOwned(c, documentRepo, actor, id, true)
		if err != nil {
			return err
		}
		if err = doc.TransitionTo(domain.DocumentStatusCancelled); err != nil {
			return err //nolint:wrapcheck
		}
		now := time.Now().UTC()
		doc.IsDeleted = true
		doc.DeletedAt = &now
		_, err = documentRepo.Save(c, doc)
		return err //nolint:wrapcheck
	})
	if txErr != nil {
		return fmt.Errorf("deleting document %d: %w", id, txErr)
	}
	return nil
}

func (s *DocumentService) lockOwned(
	ctx context.Context,
	documentRepo DocumentRepository,
	actor domain.Actor,
	id int64,
	allowAdmin bool,
) (*domain.Document, error) {
	doc, err := documentRepo.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if doc.IsDeleted {
		return nil, fmt.Errorf("%w: document %d", domain.ErrRecordNotFound, id)
	}
	if doc.OwnerID != actor.ID && !(allowAdmin && actor.IsAdmin()) {
		return nil, forbidden("document %d belongs to another user", id)
	}
	return doc, nil
}

func (s *DocumentService) ensureCategory(ctx context.Context, categoryRepo CategoryRepository, id int64) error {
	_, err := categoryRepo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.NewValidationError("categoryId", "category does not exist")
	}
	return err //nolint:wrapcheck
}
