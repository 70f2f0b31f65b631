package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/src/model"
)

func TestOrderRepositoryFindByIDForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE "orders"."id" = \$1 .*FOR UPDATE`).
		WithArgs(uint(7), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "position_id", "status"}).AddRow(7, 3, "PENDING"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "positions" WHERE "positions"."id" = $1`)).
		WithArgs(uint(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "symbol", "direction", "position_kind"}).
			AddRow(3, 1, "NASDAQ", "BUY", "ORDER"))

	order, err := repo.FindByIDForUpdate(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	require.NotNil(t, order.Position)
	assert.Equal(t, "NASDAQ", order.Position.Symbol)
	assert.Equal(t, model.DirectionBuy, order.Position.Direction)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE "orders"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	order, err := repo.FindByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, order)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositorySearch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	status := model.OrderStatusPending
	mock.ExpectQuery(`JOIN positions ON positions.id = orders.position_id JOIN accounts ON accounts.id = positions.account_id ` +
		`WHERE accounts.user_id = \$1 AND positions.account_id = \$2 AND orders.status = \$3 AND positions.symbol = \$4 ` +
		`ORDER BY orders.created_at DESC,orders.id DESC`).
		WithArgs(uint(1), uint(4), "PENDING", "DAX", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "position_id", "status"}).AddRow(2, 5, "PENDING"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "positions" WHERE "positions"."id" = $1`)).
		WithArgs(uint(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "symbol"}).AddRow(5, "DAX"))

	orders, err := repo.Search(context.Background(), OrderSearchOptions{
		UserID:    1,
		AccountID: ptrUint(4),
		Status:    &status,
		Symbol:    ptrString("DAX"),
		Limit:     10,
		Offset:    20,
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, uint(2), orders[0].ID)
	assert.Equal(t, "DAX", orders[0].Position.Symbol)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryUpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "status"=$1,"updated_at"=$2 WHERE id = $3`)).
		WithArgs("CANCELLED", sqlmock.AnyArg(), uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateStatus(context.Background(), 7, model.OrderStatusCancelled))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryFindDuePendingIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	now := time.Date(2026, time.March, 3, 15, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "orders" WHERE status = $1 AND expires_at IS NOT NULL AND expires_at <= $2 AND id > $3 ORDER BY id ASC LIMIT $4`)).
		WithArgs("PENDING", now, 2, 500).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4).AddRow(9))

	ids, err := repo.FindDuePendingIDs(context.Background(), now, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{4, 9}, ids)

	require.NoError(t, mock.ExpectationsWereMet())
}
