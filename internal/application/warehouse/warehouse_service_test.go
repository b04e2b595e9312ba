package warehouse

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/domain/shared"
	"github.com/tradewiser/backend/internal/domain/warehouse"
)

type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindByCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*warehouse.Warehouse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*warehouse.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindNearby(ctx context.Context, lat, lng, radiusKM float64, limit int) ([]*warehouse.Warehouse, error) {
	args := m.Called(ctx, lat, lng, radiusKM, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*warehouse.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockWarehouseRepository) Save(ctx context.Context, w *warehouse.Warehouse) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWarehouseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWarehouseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func testWarehouse(t *testing.T) *warehouse.Warehouse {
	t.Helper()
	w, err := warehouse.New("WH-PUNE-01", "Pune Central Warehouse", warehouse.TypeStandard, warehouse.ChannelGreen, decimal.NewFromInt(5000))
	require.NoError(t, err)
	w.ClearDomainEvents()
	return w
}

func TestService_Create(t *testing.T) {
	t.Run("creates a warehouse and publishes the created event", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		publisher := new(MockEventPublisher)
		svc := NewService(repo, publisher, zap.NewNop())

		repo.On("ExistsByCode", mock.Anything, "WH-PUNE-01").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*warehouse.Warehouse")).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		lat, lng := 18.5204, 73.8567
		resp, err := svc.Create(context.Background(), CreateWarehouseRequest{
			Code:       "WH-PUNE-01",
			Name:       "Pune Central Warehouse",
			Type:       warehouse.TypeStandard,
			Channel:    warehouse.ChannelGreen,
			CapacityMT: decimal.NewFromInt(5000),
			City:       "Pune",
			State:      "Maharashtra",
			Latitude:   &lat,
			Longitude:  &lng,
			FeeRate:    decimal.NewFromInt(25),
		})

		require.NoError(t, err)
		assert.Equal(t, "WH-PUNE-01", resp.Code)
		assert.Equal(t, warehouse.StatusActive, resp.Status)
		assert.True(t, resp.AvailableMT.Equal(decimal.NewFromInt(5000)))
		assert.True(t, resp.FeeRatePerMT.Equal(decimal.NewFromInt(25)))
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("rejects a duplicate code", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		svc := NewService(repo, nil, zap.NewNop())

		repo.On("ExistsByCode", mock.Anything, "WH-PUNE-01").Return(true, nil)

		_, err := svc.Create(context.Background(), CreateWarehouseRequest{
			Code:       "WH-PUNE-01",
			Name:       "Pune Central Warehouse",
			Type:       warehouse.TypeStandard,
			Channel:    warehouse.ChannelGreen,
			CapacityMT: decimal.NewFromInt(5000),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CODE_TAKEN", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_List(t *testing.T) {
	repo := new(MockWarehouseRepository)
	svc := NewService(repo, nil, zap.NewNop())

	w := testWarehouse(t)
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "active" && f.Page == 1 && f.PageSize == 20
	})).Return([]*warehouse.Warehouse{w}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	items, total, err := svc.List(context.Background(), ListFilter{Status: "active"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, w.Code, items[0].Code)
}

func TestService_Nearby(t *testing.T) {
	repo := new(MockWarehouseRepository)
	svc := NewService(repo, nil, zap.NewNop())

	w := testWarehouse(t)
	repo.On("FindNearby", mock.Anything, 18.5204, 73.8567, 50.0, 10).
		Return([]*warehouse.Warehouse{w}, nil)

	items, err := svc.Nearby(context.Background(), NearbyQuery{
		Latitude:  18.5204,
		Longitude: 73.8567,
	})

	require.NoError(t, err)
	require.Len(t, items, 1)
	repo.AssertExpectations(t)
}

func TestService_Disable(t *testing.T) {
	t.Run("disables an empty warehouse", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		publisher := new(MockEventPublisher)
		svc := NewService(repo, publisher, zap.NewNop())

		w := testWarehouse(t)
		repo.On("FindByID", mock.Anything, w.ID).Return(w, nil)
		repo.On("Save", mock.Anything, w).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Disable(context.Background(), w.ID)

		require.NoError(t, err)
		assert.Equal(t, warehouse.StatusInactive, resp.Status)
	})

	t.Run("refuses while stock is held", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		svc := NewService(repo, nil, zap.NewNop())

		w := testWarehouse(t)
		require.NoError(t, w.Reserve(decimal.NewFromInt(100)))
		repo.On("FindByID", mock.Anything, w.ID).Return(w, nil)

		_, err := svc.Disable(context.Background(), w.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "HAS_STOCK", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_SetFeeRate(t *testing.T) {
	repo := new(MockWarehouseRepository)
	svc := NewService(repo, nil, zap.NewNop())

	w := testWarehouse(t)
	repo.On("FindByID", mock.Anything, w.ID).Return(w, nil)
	repo.On("Save", mock.Anything, w).Return(nil)

	resp, err := svc.SetFeeRate(context.Background(), w.ID, SetFeeRateRequest{
		FeeRatePerMT: decimal.NewFromInt(30),
	})

	require.NoError(t, err)
	assert.True(t, resp.FeeRatePerMT.Equal(decimal.NewFromInt(30)))
}
