package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tradewiser/backend/internal/domain/shared"
	"github.com/tradewiser/backend/internal/domain/warehouse"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func warehouseRows(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "name", "type", "channel", "status", "city", "capacity_mt", "used_mt", "fee_rate_per_mt"}).
		AddRow(id, "WH-NASIK-01", "Nasik Central Silo", "silo", "green", "active", "Nasik", decimal.NewFromInt(5000), decimal.NewFromInt(1200), decimal.NewFromInt(45))
}

func TestGormWarehouseRepository_FindByID(t *testing.T) {
	t.Run("finds existing warehouse", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormWarehouseRepository(db)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "warehouses" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(warehouseRows(id))

		wh, err := repo.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, wh.ID)
		assert.Equal(t, "WH-NASIK-01", wh.Code)
		assert.Equal(t, warehouse.ChannelGreen, wh.Channel)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing warehouse", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormWarehouseRepository(db)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "warehouses" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		wh, err := repo.FindByID(context.Background(), id)

		assert.Nil(t, wh)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormWarehouseRepository_FindByCode(t *testing.T) {
	t.Run("uppercases the code before lookup", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormWarehouseRepository(db)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "warehouses" WHERE code = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("WH-NASIK-01", 1).
			WillReturnRows(warehouseRows(id))

		wh, err := repo.FindByCode(context.Background(), "wh-nasik-01")

		require.NoError(t, err)
		assert.Equal(t, "WH-NASIK-01", wh.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormWarehouseRepository_ExistsByCode(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormWarehouseRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "warehouses" WHERE code = \$1`).
		WithArgs("WH-NASIK-01").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByCode(context.Background(), "WH-NASIK-01")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormWarehouseRepository_FindAll(t *testing.T) {
	t.Run("applies status filter and pagination", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormWarehouseRepository(db)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "warehouses" WHERE status = \$1 ORDER BY name ASC LIMIT .*`).
			WithArgs("active", 10).
			WillReturnRows(warehouseRows(id))

		filter := shared.Filter{
			Page:     1,
			PageSize: 10,
			Filters:  map[string]interface{}{"status": "active"},
		}
		warehouses, err := repo.FindAll(context.Background(), filter)

		require.NoError(t, err)
		require.Len(t, warehouses, 1)
		assert.Equal(t, id, warehouses[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormWarehouseRepository_Delete(t *testing.T) {
	t.Run("returns ErrNotFound when nothing deleted", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormWarehouseRepository(db)

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM "warehouses" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), id)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
