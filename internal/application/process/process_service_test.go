package process

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/domain/process"
	"github.com/tradewiser/backend/internal/domain/shared"
)

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

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newDeposit(ownerID uuid.UUID) *process.Process {
	p := process.NewDeposit(ownerID, uuid.New(), uuid.New())
	p.ClearDomainEvents()
	return p
}

func TestService_Advance(t *testing.T) {
	t.Run("starts the pending current stage", func(t *testing.T) {
		repo := new(MockProcessRepo)
		publisher := new(MockPublisher)
		svc := NewService(repo, publisher, zap.NewNop())

		ownerID := uuid.New()
		p := newDeposit(ownerID)
		repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		repo.On("Save", mock.Anything, p).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Advance(context.Background(), ownerID, p.ID, AdvanceRequest{})

		require.NoError(t, err)
		assert.Equal(t, process.StageStatusInProgress, resp.StageMap[process.StagePickupScheduled])
		assert.Equal(t, process.StagePickupScheduled, resp.CurrentStage)
	})

	t.Run("completes an in-progress stage", func(t *testing.T) {
		repo := new(MockProcessRepo)
		publisher := new(MockPublisher)
		svc := NewService(repo, publisher, zap.NewNop())

		ownerID := uuid.New()
		p := newDeposit(ownerID)
		require.NoError(t, p.StartStage(process.StagePickupScheduled))
		p.ClearDomainEvents()

		repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		repo.On("Save", mock.Anything, p).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Advance(context.Background(), ownerID, p.ID, AdvanceRequest{Notes: "truck dispatched"})

		require.NoError(t, err)
		assert.Equal(t, process.StageStatusCompleted, resp.StageMap[process.StagePickupScheduled])
		assert.Equal(t, process.StagePickup, resp.CurrentStage)
	})

	t.Run("completing the last stage completes the process", func(t *testing.T) {
		repo := new(MockProcessRepo)
		publisher := new(MockPublisher)
		svc := NewService(repo, publisher, zap.NewNop())

		ownerID := uuid.New()
		p := newDeposit(ownerID)
		stages := process.DepositStages()
		for _, name := range stages[:len(stages)-1] {
			require.NoError(t, p.StartStage(name))
			require.NoError(t, p.CompleteStage(name, ""))
		}
		require.NoError(t, p.StartStage(process.StageEWRGeneration))
		p.ClearDomainEvents()

		repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		repo.On("Save", mock.Anything, p).Return(nil)
		publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			for _, e := range events {
				if e.EventType() == process.EventCompleted {
					return true
				}
			}
			return false
		})).Return(nil)

		resp, err := svc.Advance(context.Background(), ownerID, p.ID, AdvanceRequest{})

		require.NoError(t, err)
		assert.Equal(t, process.StatusCompleted, resp.Status)
		assert.Equal(t, 100, resp.ProgressPercent)
		publisher.AssertExpectations(t)
	})

	t.Run("operator advances a process owned by someone else", func(t *testing.T) {
		repo := new(MockProcessRepo)
		publisher := new(MockPublisher)
		svc := NewService(repo, publisher, zap.NewNop())

		farmerID := uuid.New()
		operatorID := uuid.New()
		p := newDeposit(farmerID)
		repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		repo.On("Save", mock.Anything, p).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Advance(context.Background(), operatorID, p.ID, AdvanceRequest{})

		require.NoError(t, err)
		assert.Equal(t, process.StageStatusInProgress, resp.StageMap[process.StagePickupScheduled])
		repo.AssertNotCalled(t, "FindByIDForOwner", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects advancing a completed process", func(t *testing.T) {
		repo := new(MockProcessRepo)
		svc := NewService(repo, nil, zap.NewNop())

		ownerID := uuid.New()
		p := newDeposit(ownerID)
		for _, name := range process.DepositStages() {
			require.NoError(t, p.StartStage(name))
			require.NoError(t, p.CompleteStage(name, ""))
		}
		repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)

		_, err := svc.Advance(context.Background(), ownerID, p.ID, AdvanceRequest{})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_FailAndRestart(t *testing.T) {
	repo := new(MockProcessRepo)
	publisher := new(MockPublisher)
	svc := NewService(repo, publisher, zap.NewNop())

	ownerID := uuid.New()
	p := newDeposit(ownerID)
	require.NoError(t, p.StartStage(process.StagePickupScheduled))
	p.ClearDomainEvents()

	repo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	repo.On("Save", mock.Anything, p).Return(nil)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	failed, err := svc.Fail(context.Background(), ownerID, p.ID, FailRequest{Reason: "truck breakdown"})
	require.NoError(t, err)
	assert.Equal(t, process.StatusFailed, failed.Status)
	assert.Equal(t, process.StageStatusFailed, failed.StageMap[process.StagePickupScheduled])

	restarted, err := svc.Restart(context.Background(), ownerID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, process.StatusInProgress, restarted.Status)
	assert.Equal(t, process.StageStatusPending, restarted.StageMap[process.StagePickupScheduled])
}

func TestService_ListActive(t *testing.T) {
	repo := new(MockProcessRepo)
	svc := NewService(repo, nil, zap.NewNop())

	ownerID := uuid.New()
	p := newDeposit(ownerID)
	repo.On("FindActiveForOwner", mock.Anything, ownerID, mock.Anything).
		Return([]*process.Process{p}, nil)

	items, err := svc.ListActive(context.Background(), ownerID, ListFilter{})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, process.StatusInProgress, items[0].Status)
}
