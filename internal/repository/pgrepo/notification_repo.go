package pgrepo

import (
	"context"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/fsdevblog/docswap/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const notificationColumns = `id, created_at, user_id, type, reference_id, message, link, is_read, dispatched_at`

type NotificationRepository struct {
	conn uow.DBTX
}

func NewNotificationRepository(conn uow.DBTX) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

func (n *NotificationRepository) Create(ctx context.Context, nt *domain.Notification) (*domain.Notification, error) {
	created, err := scanNotification(n.conn.QueryRow(ctx, `
		INSERT INTO notifications (user_id, type, reference_id, message, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+notificationColumns,
		nt.UserID, nt.Type, nt.ReferenceID, nt.Message, nt.Link,
	))
	if err != nil {
		return nil, convertErr(err, "creating %s notification for user %d", nt.Type, nt.UserID)
	}
	return created, nil
}

func (n *NotificationRepository) List(
	ctx context.Context,
	filter repoargs.NotificationFilter,
) ([]domain.Notification, int64, error) {
	w := &whereBuilder{}
	w.add("user_id = ?", filter.UserID)
	if filter.UnreadOnly {
		w.add("is_read = FALSE")
	}

	total, err := count(ctx, n.conn, `SELECT count(*) FROM notifications`+w.String(), w.args...)
	if err != nil {
		return nil, 0, convertErr(err, "counting notifications of user %d", filter.UserID)
	}

	query, args := w.paginate(
		`SELECT `+notificationColumns+` FROM notifications`+w.String()+` ORDER BY created_at DESC, id DESC`,
		filter.Page,
	)
	rows, err := n.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, convertErr(err, "listing notifications of user %d", filter.UserID)
	}
	items, err := collect(rows, scanNotification)
	if err != nil {
		return nil, 0, convertErr(err, "scanning notifications of user %d", filter.UserID)
	}
	return items, total, nil
}

func (n *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	total, err := count(ctx, n.conn,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, convertErr(err, "counting unread notifications of user %d", userID)
	}
	return total, nil
}

// MarkRead отмечает уведомление прочитанным. Чужое уведомление считается несуществующим.
func (n *NotificationRepository) MarkRead(ctx context.Context, userID, id int64) error {
	tag, err := n.conn.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return convertErr(err, "marking notification %d as read", id)
	}
	return requireAffected(tag, "marking notification %d as read", id)
}

func (n *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	tag, err := n.conn.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, convertErr(err, "marking notifications of user %d as read", userID)
	}
	return tag.RowsAffected(), nil
}

// ListUndispatched возвращает самые старые уведомления, еще не отправленные в шину событий.
func (n *NotificationRepository) ListUndispatched(ctx context.Context, limit int) ([]domain.Notification, error) {
	rows, err := n.conn.Query(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE dispatched_at IS NULL
		ORDER BY id
		LIMIT $1`, limit)
	if err != nil {
		return nil, convertErr(err, "listing undispatched notifications")
	}
	items, err := collect(rows, scanNotification)
	if err != nil {
		return nil, convertErr(err, "scanning undispatched notifications")
	}
	return items, nil
}

func (n *NotificationRepository) MarkDispatched(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := n.conn.Exec(ctx,
		`UPDATE notifications SET dispatched_at = now() WHERE id = ANY($1) AND dispatched_at IS NULL`, ids,
	); err != nil {
		return convertErr(err, "marking notifications %v as dispatched", ids)
	}
	return nil
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var nt domain.Notification
	err := row.Scan(
		&nt.ID,
		&nt.CreatedAt,
		&nt.UserID,
		&nt.Type,
		&nt.ReferenceID,
		&nt.Message,
		&nt.Link,
		&nt.IsRead,
		&nt.DispatchedAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &nt, nil
}
