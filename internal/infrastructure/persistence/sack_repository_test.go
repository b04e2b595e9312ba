package persistence

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tradewiser/backend/internal/domain/commodity"
	"github.com/tradewiser/backend/internal/domain/shared"
)

func setupSackTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&commodity.Sack{}))
	return db
}

func splitLot(t *testing.T, ownerID uuid.UUID, count int) (*commodity.Commodity, []*commodity.Sack) {
	c, err := commodity.New(ownerID, uuid.New(), "Sharbati Wheat", commodity.CategoryCereal, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, c.Activate())

	sacks, err := c.Split(count)
	require.NoError(t, err)
	return c, sacks
}

func TestSackRepository_SaveAllAndFindByCommodity(t *testing.T) {
	db := setupSackTestDB(t)
	repo := NewGormSackRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	lot, sacks := splitLot(t, ownerID, 4)
	require.NoError(t, repo.SaveAll(ctx, sacks))

	found, err := repo.FindByCommodity(ctx, lot.ID)
	require.NoError(t, err)
	require.Len(t, found, 4)

	// codes carry the sequence number, so code order is split order
	for i := 1; i < len(found); i++ {
		assert.True(t, found[i-1].Code < found[i].Code)
	}
	for _, s := range found {
		assert.Equal(t, ownerID, s.OwnerID)
		assert.Equal(t, commodity.SackStatusStored, s.Status)
		assert.True(t, s.WeightMT.Equal(decimal.RequireFromString("2.5")))
	}
}

func TestSackRepository_FindByCode(t *testing.T) {
	db := setupSackTestDB(t)
	repo := NewGormSackRepository(db)
	ctx := context.Background()

	_, sacks := splitLot(t, uuid.New(), 2)
	require.NoError(t, repo.SaveAll(ctx, sacks))

	found, err := repo.FindByCode(ctx, strings.ToLower(sacks[0].Code))
	require.NoError(t, err)
	assert.Equal(t, sacks[0].ID, found.ID)

	_, err = repo.FindByCode(ctx, "SACK-UNKNOWN-0001")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSackRepository_FindByID_NotFound(t *testing.T) {
	db := setupSackTestDB(t)
	repo := NewGormSackRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSackRepository_FindAllForOwner(t *testing.T) {
	db := setupSackTestDB(t)
	repo := NewGormSackRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	otherID := uuid.New()
	lot, sacks := splitLot(t, ownerID, 3)
	require.NoError(t, repo.SaveAll(ctx, sacks))

	// transferring one sack moves it out of the original owner's view
	require.NoError(t, sacks[0].TransferTo(otherID))
	require.NoError(t, repo.Save(ctx, sacks[0]))

	mine, err := repo.FindAllForOwner(ctx, ownerID, shared.Filter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := repo.FindAllForOwner(ctx, otherID, shared.Filter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, commodity.SackStatusTransferred, theirs[0].Status)

	stored, err := repo.FindAllForOwner(ctx, ownerID, shared.Filter{
		Page:     1,
		PageSize: 20,
		Filters:  map[string]interface{}{"status": string(commodity.SackStatusStored), "commodity_id": lot.ID},
	})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
