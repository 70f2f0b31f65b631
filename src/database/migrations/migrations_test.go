package migrations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLite(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	return db
}

func TestRunOnce_RecordsAndSkips(t *testing.T) {
	db := newSQLite(t, "migrations_once")

	calls := 0
	fn := func(*gorm.DB) error {
		calls++
		return nil
	}

	require.NoError(t, RunOnce(db, "00042_example", fn))
	require.NoError(t, RunOnce(db, "00042_example", fn))
	assert.Equal(t, 1, calls)

	var m DataMigration
	require.NoError(t, db.First(&m, "id = ?", "00042_example").Error)
	assert.False(t, m.AppliedAt.IsZero())
}

func TestRunOnce_FailureIsNotRecorded(t *testing.T) {
	db := newSQLite(t, "migrations_failure")

	err := RunOnce(db, "00043_broken", func(*gorm.DB) error { return errors.New("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	var count int64
	require.NoError(t, db.Model(&DataMigration{}).Where("id = ?", "00043_broken").Count(&count).Error)
	assert.Zero(t, count)
}

func TestRunOnce_RejectsBadArguments(t *testing.T) {
	db := newSQLite(t, "migrations_args")

	assert.Error(t, RunOnce(db, "", func(*gorm.DB) error { return nil }))
	assert.Error(t, RunOnce(db, "00044_nil", nil))
	assert.NoError(t, RunOnce(nil, "00045_nodb", nil))
}
