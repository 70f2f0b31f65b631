package journal

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tradejournal/src/database"
	"tradejournal/src/model"
	"tradejournal/src/repository"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

type fixture struct {
	t      *testing.T
	db     *gorm.DB
	engine *Engine
	now    time.Time

	alice        uint
	bob          uint
	aliceAccount uint
	aliceSpare   uint
	bobAccount   uint
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(database.Config{
		Driver:          database.DriverSQLite,
		URL:             fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name),
		GormLogLevel:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		t:   t,
		db:  newTestDB(t),
		now: time.Date(2026, time.March, 3, 15, 0, 0, 0, time.UTC),
	}
	f.engine = NewEngine(f.db, WithClock(func() time.Time { return f.now }))

	ctx := context.Background()
	alice := &model.User{UserName: "alice"}
	bob := &model.User{UserName: "bob"}
	require.NoError(t, f.db.Create(alice).Error)
	require.NoError(t, f.db.Create(bob).Error)
	f.alice, f.bob = alice.ID, bob.ID

	accounts := repository.NewAccountRepository(f.db)
	for _, acc := range []struct {
		user uint
		name string
		dst  *uint
	}{
		{f.alice, "main", &f.aliceAccount},
		{f.alice, "prop challenge", &f.aliceSpare},
		{f.bob, "main", &f.bobAccount},
	} {
		a := &model.Account{UserID: acc.user, Name: acc.name}
		require.NoError(t, accounts.Create(ctx, a))
		*acc.dst = a.ID
	}

	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func nasdaqLong() PositionInput {
	return PositionInput{
		Symbol:     "NASDAQ",
		Direction:  model.DirectionBuy,
		EntryPrice: d("18500"),
		Size:       d("2"),
		Setup:      "opening range breakout",
		SLPoints:   d("50"),
	}
}

func daxShort() PositionInput {
	return PositionInput{
		Symbol:     "DAX",
		Direction:  model.DirectionSell,
		EntryPrice: d("16500"),
		Size:       d("1"),
		Setup:      "failed auction at highs",
		SLPoints:   d("30"),
		Targets:    []TargetInput{{Points: d("60"), Size: d("1")}},
	}
}

func (f *fixture) createOrder(user, account uint, in PositionInput) *model.Order {
	f.t.Helper()
	order, err := f.engine.CreateOrder(context.Background(), User(user), account, CreateOrderInput{PositionInput: in})
	require.NoError(f.t, err)
	return order
}

func (f *fixture) createTrade(user, account uint, in PositionInput) *model.Trade {
	f.t.Helper()
	trade, err := f.engine.CreateTrade(context.Background(), User(user), account, CreateTradeInput{PositionInput: in})
	require.NoError(f.t, err)
	return trade
}

func (f *fixture) history(entity model.EntityType, id uint) []model.StatusHistoryEntry {
	f.t.Helper()
	entries, err := repository.NewStatusHistoryRepository(f.db).ListByEntity(context.Background(), entity, id)
	require.NoError(f.t, err)
	return entries
}

func (f *fixture) count(m any) int64 {
	f.t.Helper()
	var n int64
	require.NoError(f.t, f.db.Model(m).Count(&n).Error)
	return n
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(d(want)), "want %s got %s", want, got)
}

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()
	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, field, verr.Field)
}
