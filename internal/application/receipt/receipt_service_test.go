package receipt

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/domain/commodity"
	"github.com/tradewiser/backend/internal/domain/process"
	"github.com/tradewiser/backend/internal/domain/receipt"
	"github.com/tradewiser/backend/internal/domain/shared"
	"github.com/tradewiser/backend/internal/domain/warehouse"
	"github.com/tradewiser/backend/internal/infrastructure/cache"
)

type MockReceiptRepo struct {
	mock.Mock
}

func (m *MockReceiptRepo) FindByID(ctx context.Context, id uuid.UUID) (*receipt.WarehouseReceipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receipt.WarehouseReceipt), args.Error(1)
}

func (m *MockReceiptRepo) FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*receipt.WarehouseReceipt, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receipt.WarehouseReceipt), args.Error(1)
}

func (m *MockReceiptRepo) FindByNumber(ctx context.Context, number string) (*receipt.WarehouseReceipt, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receipt.WarehouseReceipt), args.Error(1)
}

func (m *MockReceiptRepo) FindByVerificationCode(ctx context.Context, code string) (*receipt.WarehouseReceipt, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receipt.WarehouseReceipt), args.Error(1)
}

func (m *MockReceiptRepo) FindByCommodity(ctx context.Context, commodityID uuid.UUID) (*receipt.WarehouseReceipt, error) {
	args := m.Called(ctx, commodityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receipt.WarehouseReceipt), args.Error(1)
}

func (m *MockReceiptRepo) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*receipt.WarehouseReceipt, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*receipt.WarehouseReceipt), args.Error(1)
}

func (m *MockReceiptRepo) FindActiveByCommodityCategory(ctx context.Context, category string) ([]*receipt.WarehouseReceipt, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*receipt.WarehouseReceipt), args.Error(1)
}

func (m *MockReceiptRepo) FindActiveExpired(ctx context.Context, asOf time.Time) ([]*receipt.WarehouseReceipt, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*receipt.WarehouseReceipt), args.Error(1)
}

func (m *MockReceiptRepo) Save(ctx context.Context, r *receipt.WarehouseReceipt) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReceiptRepo) Count(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockCommodityRepo struct {
	mock.Mock
}

func (m *MockCommodityRepo) FindByID(ctx context.Context, id uuid.UUID) (*commodity.Commodity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commodity.Commodity), args.Error(1)
}

func (m *MockCommodityRepo) FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*commodity.Commodity, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commodity.Commodity), args.Error(1)
}

func (m *MockCommodityRepo) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*commodity.Commodity, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*commodity.Commodity), args.Error(1)
}

func (m *MockCommodityRepo) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]*commodity.Commodity, error) {
	args := m.Called(ctx, warehouseID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*commodity.Commodity), args.Error(1)
}

func (m *MockCommodityRepo) FindActiveByCategory(ctx context.Context, category commodity.Category) ([]*commodity.Commodity, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*commodity.Commodity), args.Error(1)
}

func (m *MockCommodityRepo) Save(ctx context.Context, c *commodity.Commodity) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommodityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommodityRepo) Count(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockProcessRepo struct {
	mock.Mock
}

func (m *MockProcessRepo) FindByID(ctx context.Context, id uuid.UUID) (*process.Process, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*process.Process), args.Error(1)
}

func (m *MockProcessRepo) FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*process.Process, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*process.Process), args.Error(1)
}

func (m *MockProcessRepo) FindByCommodity(ctx context.Context, commodityID uuid.UUID, kind process.Kind) (*process.Process, error) {
	args := m.Called(ctx, commodityID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*process.Process), args.Error(1)
}

func (m *MockProcessRepo) FindActiveForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*process.Process, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*process.Process), args.Error(1)
}

func (m *MockProcessRepo) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]*process.Process, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*process.Process), args.Error(1)
}

func (m *MockProcessRepo) Save(ctx context.Context, p *process.Process) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProcessRepo) Count(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockWarehouseRepo struct {
	mock.Mock
}

func (m *MockWarehouseRepo) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepo) FindByCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepo) FindAll(ctx context.Context, filter shared.Filter) ([]*warehouse.Warehouse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*warehouse.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepo) FindNearby(ctx context.Context, lat, lng, radiusKM float64, limit int) ([]*warehouse.Warehouse, error) {
	args := m.Called(ctx, lat, lng, radiusKM, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*warehouse.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockWarehouseRepo) Save(ctx context.Context, w *warehouse.Warehouse) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWarehouseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWarehouseRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// fakeStorage is an in-memory DocumentStorage for service tests
type fakeStorage struct {
	objects map[string]bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]bool)}
}

func (f *fakeStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.test/upload/" + storageKey, time.Now().Add(expiresIn), nil
}

func (f *fakeStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.test/download/" + storageKey, time.Now().Add(expiresIn), nil
}

func (f *fakeStorage) DeleteObject(ctx context.Context, storageKey string) error {
	delete(f.objects, storageKey)
	return nil
}

func (f *fakeStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	return f.objects[storageKey], nil
}

// fakeVerifyCache records Get/Set/Invalidate calls
type fakeVerifyCache struct {
	entries     map[string]string
	ttls        map[string]time.Duration
	invalidated []string
}

func newFakeVerifyCache() *fakeVerifyCache {
	return &fakeVerifyCache{
		entries: make(map[string]string),
		ttls:    make(map[string]time.Duration),
	}
}

func (f *fakeVerifyCache) Get(ctx context.Context, code string) (string, bool, error) {
	payload, ok := f.entries[code]
	return payload, ok, nil
}

func (f *fakeVerifyCache) Set(ctx context.Context, code, payload string, maxTTL time.Duration) error {
	f.entries[code] = payload
	f.ttls[code] = maxTTL
	return nil
}

func (f *fakeVerifyCache) Invalidate(ctx context.Context, code string) error {
	delete(f.entries, code)
	f.invalidated = append(f.invalidated, code)
	return nil
}

func issuedReceipt(t *testing.T, ownerID uuid.UUID) *receipt.WarehouseReceipt {
	t.Helper()
	r, err := receipt.Issue(ownerID, uuid.New(), uuid.New(), decimal.NewFromInt(100), decimal.NewFromInt(2150000))
	require.NoError(t, err)
	r.ClearDomainEvents()
	return r
}

func newTestService(receipts *MockReceiptRepo, commodities *MockCommodityRepo, processes *MockProcessRepo, storage DocumentStorage, verifyCache *fakeVerifyCache, publisher *MockPublisher) *Service {
	var pub shared.EventPublisher
	if publisher != nil {
		pub = publisher
	}
	var vc cache.VerificationCache
	if verifyCache != nil {
		vc = verifyCache
	}
	return NewService(receipts, commodities, processes, storage, vc, pub, zap.NewNop())
}

func TestService_VerifyByCode(t *testing.T) {
	t.Run("caches the payload after the first lookup", func(t *testing.T) {
		receipts := new(MockReceiptRepo)
		verifyCache := newFakeVerifyCache()
		svc := newTestService(receipts, new(MockCommodityRepo), new(MockProcessRepo), newFakeStorage(), verifyCache, nil)

		r := issuedReceipt(t, uuid.New())
		receipts.On("FindByVerificationCode", mock.Anything, r.VerificationCode).Return(r, nil).Once()

		first, err := svc.VerifyByCode(context.Background(), r.VerificationCode)
		require.NoError(t, err)
		assert.True(t, first.Valid)
		assert.Equal(t, r.Number, first.Number)

		// Second lookup is served from the cache; the mock allows one call only.
		second, err := svc.VerifyByCode(context.Background(), r.VerificationCode)
		require.NoError(t, err)
		assert.Equal(t, first.Number, second.Number)
		receipts.AssertExpectations(t)
	})

	t.Run("cache entry does not outlive the validity window", func(t *testing.T) {
		receipts := new(MockReceiptRepo)
		verifyCache := newFakeVerifyCache()
		svc := newTestService(receipts, new(MockCommodityRepo), new(MockProcessRepo), newFakeStorage(), verifyCache, nil)

		r := issuedReceipt(t, uuid.New())
		r.ExpiresAt = time.Now().Add(90 * time.Second)
		receipts.On("FindByVerificationCode", mock.Anything, r.VerificationCode).Return(r, nil)

		resp, err := svc.VerifyByCode(context.Background(), r.VerificationCode)
		require.NoError(t, err)
		assert.True(t, resp.Valid)

		ttl := verifyCache.ttls[r.VerificationCode]
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, 90*time.Second)
	})

	t.Run("expired receipt verifies as invalid", func(t *testing.T) {
		receipts := new(MockReceiptRepo)
		svc := newTestService(receipts, new(MockCommodityRepo), new(MockProcessRepo), newFakeStorage(), nil, nil)

		r := issuedReceipt(t, uuid.New())
		r.ExpiresAt = time.Now().Add(-time.Hour)
		require.NoError(t, r.MarkExpired())
		r.ClearDomainEvents()
		receipts.On("FindByVerificationCode", mock.Anything, r.VerificationCode).Return(r, nil)

		resp, err := svc.VerifyByCode(context.Background(), r.VerificationCode)
		require.NoError(t, err)
		assert.False(t, resp.Valid)
		assert.Equal(t, receipt.StatusExpired, resp.Status)
	})

	t.Run("unknown code returns not found", func(t *testing.T) {
		receipts := new(MockReceiptRepo)
		svc := newTestService(receipts, new(MockCommodityRepo), new(MockProcessRepo), newFakeStorage(), nil, nil)

		receipts.On("FindByVerificationCode", mock.Anything, "nope").Return(nil, shared.ErrNotFound)

		_, err := svc.VerifyByCode(context.Background(), "nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_Transfer(t *testing.T) {
	t.Run("transfers receipt and commodity, invalidating the verify cache", func(t *testing.T) {
		receipts := new(MockReceiptRepo)
		commodities := new(MockCommodityRepo)
		publisher := new(MockPublisher)
		verifyCache := newFakeVerifyCache()
		svc := newTestService(receipts, commodities, new(MockProcessRepo), newFakeStorage(), verifyCache, publisher)

		ownerID := uuid.New()
		toUser := uuid.New()
		r := issuedReceipt(t, ownerID)
		c, err := commodity.New(ownerID, r.WarehouseID, "Soybean", commodity.CategoryOilseed, decimal.NewFromInt(100))
		require.NoError(t, err)
		require.NoError(t, c.RecordQuality("A", "{}"))
		require.NoError(t, c.Activate())
		c.ClearDomainEvents()

		receipts.On("FindByIDForOwner", mock.Anything, r.ID, ownerID).Return(r, nil)
		receipts.On("Save", mock.Anything, r).Return(nil)
		commodities.On("FindByID", mock.Anything, r.CommodityID).Return(c, nil)
		commodities.On("Save", mock.Anything, c).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Transfer(context.Background(), ownerID, r.ID, TransferRequest{ToUserID: toUser})

		require.NoError(t, err)
		assert.Equal(t, toUser, resp.OwnerID)
		assert.Equal(t, toUser, c.OwnerID)
		assert.Contains(t, verifyCache.invalidated, r.VerificationCode)
	})

	t.Run("rejects transferring a collateralized receipt", func(t *testing.T) {
		receipts := new(MockReceiptRepo)
		svc := newTestService(receipts, new(MockCommodityRepo), new(MockProcessRepo), newFakeStorage(), nil, nil)

		ownerID := uuid.New()
		r := issuedReceipt(t, ownerID)
		require.NoError(t, r.Collateralize())
		r.ClearDomainEvents()
		receipts.On("FindByIDForOwner", mock.Anything, r.ID, ownerID).Return(r, nil)

		_, err := svc.Transfer(context.Background(), ownerID, r.ID, TransferRequest{ToUserID: uuid.New()})

		require.Error(t, err)
		receipts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_ExpireLapsed(t *testing.T) {
	t.Run("expires receipts past the validity window", func(t *testing.T) {
		receipts := new(MockReceiptRepo)
		publisher := new(MockPublisher)
		verifyCache := newFakeVerifyCache()
		svc := newTestService(receipts, new(MockCommodityRepo), new(MockProcessRepo), newFakeStorage(), verifyCache, publisher)

		r := issuedReceipt(t, uuid.New())
		r.ExpiresAt = time.Now().Add(-time.Hour)

		now := time.Now()
		receipts.On("FindActiveExpired", mock.Anything, now).Return([]*receipt.WarehouseReceipt{r}, nil)
		receipts.On("Save", mock.Anything, r).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		n, err := svc.ExpireLapsed(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, receipt.StatusExpired, r.Status)
		assert.Contains(t, verifyCache.invalidated, r.VerificationCode)
		receipts.AssertExpectations(t)
	})

	t.Run("nothing to expire", func(t *testing.T) {
		receipts := new(MockReceiptRepo)
		svc := newTestService(receipts, new(MockCommodityRepo), new(MockProcessRepo), newFakeStorage(), nil, nil)

		now := time.Now()
		receipts.On("FindActiveExpired", mock.Anything, now).Return([]*receipt.WarehouseReceipt{}, nil)

		n, err := svc.ExpireLapsed(context.Background(), now)

		require.NoError(t, err)
		assert.Zero(t, n)
		receipts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_Withdraw(t *testing.T) {
	receipts := new(MockReceiptRepo)
	processes := new(MockProcessRepo)
	publisher := new(MockPublisher)
	svc := newTestService(receipts, new(MockCommodityRepo), processes, newFakeStorage(), nil, publisher)

	ownerID := uuid.New()
	r := issuedReceipt(t, ownerID)
	receipts.On("FindByIDForOwner", mock.Anything, r.ID, ownerID).Return(r, nil)
	receipts.On("Save", mock.Anything, r).Return(nil)
	processes.On("Save", mock.Anything, mock.MatchedBy(func(p *process.Process) bool {
		return p.Kind == process.KindWithdrawal && p.ReceiptID != nil && *p.ReceiptID == r.ID
	})).Return(nil)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Withdraw(context.Background(), ownerID, r.ID)

	require.NoError(t, err)
	assert.Equal(t, receipt.StatusInTransfer, resp.Status)
	processes.AssertExpectations(t)
}

func TestService_Attachments(t *testing.T) {
	t.Run("upload request returns a presigned URL and key", func(t *testing.T) {
		receipts := new(MockReceiptRepo)
		svc := newTestService(receipts, new(MockCommodityRepo), new(MockProcessRepo), newFakeStorage(), nil, nil)

		ownerID := uuid.New()
		r := issuedReceipt(t, ownerID)
		receipts.On("FindByIDForOwner", mock.Anything, r.ID, ownerID).Return(r, nil)

		resp, err := svc.RequestUpload(context.Background(), ownerID, r.ID, RequestUploadRequest{
			FileName:    "assay-report.pdf",
			ContentType: "application/pdf",
			SizeBytes:   1024,
		})

		require.NoError(t, err)
		assert.Contains(t, resp.StorageKey, "receipts/"+r.ID.String()+"/")
		assert.Contains(t, resp.StorageKey, "assay-report.pdf")
		assert.Contains(t, resp.UploadURL, resp.StorageKey)
	})

	t.Run("confirm rejects a missing object", func(t *testing.T) {
		receipts := new(MockReceiptRepo)
		storage := newFakeStorage()
		svc := newTestService(receipts, new(MockCommodityRepo), new(MockProcessRepo), storage, nil, nil)

		ownerID := uuid.New()
		r := issuedReceipt(t, ownerID)
		receipts.On("FindByIDForOwner", mock.Anything, r.ID, ownerID).Return(r, nil)

		_, err := svc.ConfirmUpload(context.Background(), ownerID, r.ID, ConfirmUploadRequest{
			StorageKey: "receipts/ghost.pdf",
			FileName:   "ghost.pdf",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UPLOAD_MISSING", domainErr.Code)
	})

	t.Run("confirm records the attachment once uploaded", func(t *testing.T) {
		receipts := new(MockReceiptRepo)
		storage := newFakeStorage()
		svc := newTestService(receipts, new(MockCommodityRepo), new(MockProcessRepo), storage, nil, nil)

		ownerID := uuid.New()
		r := issuedReceipt(t, ownerID)
		storage.objects["receipts/report.pdf"] = true
		receipts.On("FindByIDForOwner", mock.Anything, r.ID, ownerID).Return(r, nil)
		receipts.On("Save", mock.Anything, r).Return(nil)

		resp, err := svc.ConfirmUpload(context.Background(), ownerID, r.ID, ConfirmUploadRequest{
			StorageKey:  "receipts/report.pdf",
			FileName:    "report.pdf",
			ContentType: "application/pdf",
			SizeBytes:   2048,
		})

		require.NoError(t, err)
		require.Len(t, resp.Attachments, 1)
		assert.Equal(t, "report.pdf", resp.Attachments[0].FileName)
		assert.Equal(t, ownerID, resp.Attachments[0].UploadedBy)
	})

	t.Run("download URL resolves an attachment by ID", func(t *testing.T) {
		receipts := new(MockReceiptRepo)
		svc := newTestService(receipts, new(MockCommodityRepo), new(MockProcessRepo), newFakeStorage(), nil, nil)

		ownerID := uuid.New()
		r := issuedReceipt(t, ownerID)
		a, err := r.AddAttachment("photo.jpg", "receipts/photo.jpg", "image/jpeg", 512, ownerID)
		require.NoError(t, err)
		receipts.On("FindByIDForOwner", mock.Anything, r.ID, ownerID).Return(r, nil)

		resp, err := svc.DownloadURL(context.Background(), ownerID, r.ID, a.ID)

		require.NoError(t, err)
		assert.Contains(t, resp.DownloadURL, "receipts/photo.jpg")
	})
}
