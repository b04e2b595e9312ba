package process

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradewiser/backend/internal/domain/shared"
)

func TestNewDeposit(t *testing.T) {
	p := NewDeposit(uuid.New(), uuid.New(), uuid.New())

	assert.Equal(t, KindDeposit, p.Kind)
	assert.Equal(t, StatusInProgress, p.Status)
	require.Len(t, p.Stages, 6)
	assert.Equal(t, StagePickupScheduled, p.Stages[0].Name)
	assert.Equal(t, StageEWRGeneration, p.Stages[5].Name)
	assert.Equal(t, 0, p.ProgressPercent())

	current := p.CurrentStage()
	require.NotNil(t, current)
	assert.Equal(t, StagePickupScheduled, current.Name)
}

func TestProcess_StartStage_OutOfOrder(t *testing.T) {
	p := NewDeposit(uuid.New(), uuid.New(), uuid.New())

	err := p.StartStage(StagePickup)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "STAGE_ORDER", domainErr.Code)
}

func TestProcess_CompleteStage_Advances(t *testing.T) {
	p := NewDeposit(uuid.New(), uuid.New(), uuid.New())

	require.NoError(t, p.StartStage(StagePickupScheduled))
	require.NoError(t, p.CompleteStage(StagePickupScheduled, "truck booked"))

	assert.Equal(t, 16, p.ProgressPercent())
	current := p.CurrentStage()
	require.NotNil(t, current)
	assert.Equal(t, StagePickup, current.Name)

	err := p.CompleteStage(StagePickupScheduled, "")
	require.Error(t, err, "completed stage cannot complete again")
}

func TestProcess_CompleteAll_CompletesProcess(t *testing.T) {
	p := NewWithdrawal(uuid.New(), uuid.New(), uuid.New(), uuid.New())

	for _, name := range WithdrawalStages() {
		require.NoError(t, p.StartStage(name))
		require.NoError(t, p.CompleteStage(name, ""))
	}

	assert.True(t, p.IsCompleted())
	assert.Equal(t, 100, p.ProgressPercent())

	events := p.GetDomainEvents()
	var sawCompleted bool
	for _, e := range events {
		if e.EventType() == EventCompleted {
			sawCompleted = true
		}
	}
	assert.True(t, sawCompleted)
}

func TestProcess_FailAndRestart(t *testing.T) {
	p := NewDeposit(uuid.New(), uuid.New(), uuid.New())

	require.NoError(t, p.StartStage(StagePickupScheduled))
	require.NoError(t, p.FailStage(StagePickupScheduled, "farmer unreachable"))
	assert.Equal(t, StatusFailed, p.Status)

	err := p.StartStage(StagePickupScheduled)
	require.Error(t, err, "failed process cannot advance")

	require.NoError(t, p.RestartStage(StagePickupScheduled))
	assert.Equal(t, StatusInProgress, p.Status)
	require.NoError(t, p.StartStage(StagePickupScheduled))
}

func TestProcess_FailStage_NotCurrent(t *testing.T) {
	p := NewDeposit(uuid.New(), uuid.New(), uuid.New())

	err := p.FailStage(StageQualityAssessment, "")
	require.Error(t, err)
}

func TestProcess_StageMap(t *testing.T) {
	p := NewWithdrawal(uuid.New(), uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, p.StartStage(StageRequestReceived))

	m := p.StageMap()
	require.Len(t, m, 4)
	assert.Equal(t, StageStatusInProgress, m[StageRequestReceived])
	assert.Equal(t, StageStatusPending, m[StageVerification])
}
