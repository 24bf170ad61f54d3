package service

import (
	"fmt"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
)

// repo возвращает репозиторий вне транзакции. Используется при инициализации сервисов.
func repo[T any](u uow.UOW, name repoargs.RepositoryName) (T, error) {
	r, err := uow.GetRepositoryAs[T](u, uow.RepositoryName(name))
	if err != nil {
		return r, fmt.Errorf("getting %s repository: %w", name, err)
	}
	return r, nil
}

// txRepo возвращает репозиторий, работающий в транзакции tx.
func txRepo[T any](tx uow.TX, name repoargs.RepositoryName) (T, error) {
	r, err := uow.GetAs[T](tx, uow.RepositoryName(name))
	if err != nil {
		return r, fmt.Errorf("getting %s repository: %w", name, err)
	}
	return r, nil
}

func forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrForbidden, fmt.Sprintf(format, args...))
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrConflict, fmt.Sprintf(format, args...))
}
