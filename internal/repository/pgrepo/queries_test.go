package pgrepo

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/repository/repoargs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCaptured = errors.New("captured")

// captureConn запоминает отправленные запросы и завершает каждый ошибкой errCaptured.
type captureConn struct {
	queries []string
	args    [][]any
}

func (c *captureConn) record(sql string, args []any) {
	c.queries = append(c.queries, sql)
	c.args = append(c.args, args)
}

func (c *captureConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.record(sql, args)
	return pgconn.CommandTag{}, errCaptured
}

func (c *captureConn) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.record(sql, args)
	return nil, errCaptured
}

func (c *captureConn) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	c.record(sql, args)
	return capturedRow{}
}

func (c *captureConn) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	return nil
}

type capturedRow struct{}

func (capturedRow) Scan(...any) error {
	return errCaptured
}

func TestListQueriesSkipDeleted(t *testing.T) {
	cases := []struct {
		name     string
		list     func(conn *captureConn) error
		wantPred []string
	}{
		{
			name: "listings",
			list: func(conn *captureConn) error {
				_, _, err := NewListingRepository(conn).List(t.Context(), repoargs.ListingFilter{Title: "math"})
				return err
			},
			wantPred: []string{"l.is_deleted = FALSE", "u.is_deleted = FALSE", "JOIN users u ON u.id = l.owner_id"},
		},
		{
			name: "documents",
			list: func(conn *captureConn) error {
				_, _, err := NewDocumentRepository(conn).List(t.Context(), repoargs.DocumentFilter{OwnerID: 3})
				return err
			},
			wantPred: []string{"is_deleted = FALSE"},
		},
		{
			name: "users",
			list: func(conn *captureConn) error {
				_, _, err := NewUserRepository(conn).List(t.Context(), repoargs.UserFilter{Search: "ann"})
				return err
			},
			wantPred: []string{"is_deleted = FALSE"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conn := &captureConn{}
			err := tc.list(conn)
			require.ErrorIs(t, err, domain.ErrUnknown)
			require.Len(t, conn.queries, 1)
			for _, pred := range tc.wantPred {
				assert.Contains(t, conn.queries[0], pred)
			}
		})
	}
}

func TestListingsWhere(t *testing.T) {
	t.Run("public view is active only", func(t *testing.T) {
		w := listingsWhere(repoargs.ListingFilter{OwnerID: 7})
		assert.Contains(t, w.String(), "l.owner_id = $1")
		assert.Contains(t, w.String(), "l.status = $2")
		assert.Equal(t, []any{int64(7), domain.ListingStatusActive}, w.args)
	})

	t.Run("owner view has every status", func(t *testing.T) {
		w := listingsWhere(repoargs.ListingFilter{OwnerID: 7, AllStatuses: true})
		assert.NotContains(t, w.String(), "l.status")
		assert.Contains(t, w.String(), "l.is_deleted = FALSE")
		assert.Contains(t, w.String(), "u.is_deleted = FALSE")
	})
}

func TestOrderReadsResolveDeleted(t *testing.T) {
	conn := &captureConn{}
	_, err := NewOrderRepository(conn).FindByID(t.Context(), 100)
	require.ErrorIs(t, err, domain.ErrUnknown)
	require.Len(t, conn.queries, 1)

	// детали заказа читаются и для удаленных документов, объявлений и пользователей.
	for _, q := range []string{conn.queries[0], orderDetailsQuery} {
		assert.NotContains(t, q, "is_deleted")
	}
	assert.True(t, strings.Contains(orderDetailsQuery, "JOIN documents d"))
}

func TestActiveIDsByOwner(t *testing.T) {
	conn := &captureConn{}
	_, err := NewListingRepository(conn).ActiveIDsByOwner(t.Context(), 9)
	require.ErrorIs(t, err, domain.ErrUnknown)
	require.Len(t, conn.queries, 1)
	assert.Contains(t, conn.queries[0], "ORDER BY id")
	assert.Equal(t, []any{int64(9), domain.ListingStatusActive}, conn.args[0])
}
