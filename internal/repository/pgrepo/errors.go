package pgrepo

import (
	"fmt"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// convertErr преобразует ошибку к стандартному виду для слоя репозитория.
// Добавляет форматированное сообщение контекста, тип бизнес-ошибки и оригинальное сообщение.
// Особенности:
//   - Для ошибок отсутствия данных (pgx.ErrNoRows) возвращает ErrRecordNotFound из domain.
//   - Нарушение уникальности (uniqueViolationCode) возвращается как ErrDuplicateKey из domain.
//   - Нарушение внешнего ключа означает ссылку на несуществующую запись и возвращается как ErrRecordNotFound.
//   - Все остальные ошибки возвращаются как ErrUnknown с оригинальным сообщением.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Wrapf(domain.ErrRecordNotFound, "[repository/%s]", msg)
	}

	errType := domain.ErrUnknown

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			errType = domain.ErrDuplicateKey
		case foreignKeyViolationCode:
			errType = domain.ErrRecordNotFound
		}
	}

	return errors.Wrapf(errType, "[repository/%s] %s", msg, err.Error())
}

// requireAffected возвращает ErrRecordNotFound, если запрос не затронул ни одной строки.
func requireAffected(tag pgconn.CommandTag, format string, formatArgs ...any) error {
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(domain.ErrRecordNotFound, "[repository/%s]", fmt.Sprintf(format, formatArgs...))
	}
	return nil
}
