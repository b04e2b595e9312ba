package process

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// Kind represents the workflow a process tracks
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

// Status represents the overall status of a process
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// StageStatus represents the status of a single stage
type StageStatus string

const (
	StageStatusPending    StageStatus = "pending"
	StageStatusInProgress StageStatus = "in_progress"
	StageStatusCompleted  StageStatus = "completed"
	StageStatusFailed     StageStatus = "failed"
)

// Deposit pipeline stage names, in order
const (
	StagePickupScheduled    = "pickup_scheduled"
	StagePickup             = "pickup"
	StageArrivedAtWarehouse = "arrived_at_warehouse"
	StagePreCleaning        = "pre_cleaning"
	StageQualityAssessment  = "quality_assessment"
	StageEWRGeneration      = "ewr_generation"
)

// Withdrawal pipeline stage names, in order
const (
	StageRequestReceived = "request_received"
	StageVerification    = "verification"
	StageRelease         = "release"
	StageDelivered       = "delivered"
)

// DepositStages returns the ordered deposit pipeline
func DepositStages() []string {
	return []string{
		StagePickupScheduled,
		StagePickup,
		StageArrivedAtWarehouse,
		StagePreCleaning,
		StageQualityAssessment,
		StageEWRGeneration,
	}
}

// WithdrawalStages returns the ordered withdrawal pipeline
func WithdrawalStages() []string {
	return []string{
		StageRequestReceived,
		StageVerification,
		StageRelease,
		StageDelivered,
	}
}

// Stage is one step of a process pipeline
type Stage struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key"`
	ProcessID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	Seq         int         `gorm:"not null"`
	Name        string      `gorm:"type:varchar(50);not null"`
	Status      StageStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Notes       string      `gorm:"type:varchar(500)"`
	StartedAt   *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Stage) TableName() string {
	return "process_stages"
}

// Process is the aggregate root for deposit and withdrawal tracking.
// Stages advance strictly in order: a stage can only start when every
// earlier stage has completed.
type Process struct {
	shared.OwnedAggregateRoot
	Kind        Kind      `gorm:"type:varchar(20);not null;index"`
	CommodityID uuid.UUID `gorm:"type:uuid;not null;index"`
	ReceiptID   *uuid.UUID `gorm:"type:uuid;index"` // set for withdrawal processes
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;index"`
	Status      Status    `gorm:"type:varchar(20);not null;default:'in_progress';index"`
	Stages      []Stage   `gorm:"foreignKey:ProcessID;references:ID"`
}

// TableName returns the table name for GORM
func (Process) TableName() string {
	return "processes"
}

// NewDeposit creates a deposit tracking process with the full pipeline pending
func NewDeposit(ownerID, commodityID, warehouseID uuid.UUID) *Process {
	return newProcess(ownerID, commodityID, warehouseID, KindDeposit, DepositStages(), nil)
}

// NewWithdrawal creates a withdrawal tracking process for a receipt
func NewWithdrawal(ownerID, commodityID, warehouseID, receiptID uuid.UUID) *Process {
	return newProcess(ownerID, commodityID, warehouseID, KindWithdrawal, WithdrawalStages(), &receiptID)
}

func newProcess(ownerID, commodityID, warehouseID uuid.UUID, kind Kind, stageNames []string, receiptID *uuid.UUID) *Process {
	p := &Process{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Kind:               kind,
		CommodityID:        commodityID,
		ReceiptID:          receiptID,
		WarehouseID:        warehouseID,
		Status:             StatusInProgress,
	}

	now := time.Now()
	for i, name := range stageNames {
		p.Stages = append(p.Stages, Stage{
			ID:        uuid.New(),
			ProcessID: p.ID,
			Seq:       i + 1,
			Name:      name,
			Status:    StageStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	p.AddDomainEvent(NewStartedEvent(p))

	return p
}

// CurrentStage returns the first stage that is not completed, or nil
// when every stage has completed.
func (p *Process) CurrentStage() *Stage {
	for i := range p.Stages {
		if p.Stages[i].Status != StageStatusCompleted {
			return &p.Stages[i]
		}
	}
	return nil
}

// StageByName returns the named stage, or nil
func (p *Process) StageByName(name string) *Stage {
	for i := range p.Stages {
		if p.Stages[i].Name == name {
			return &p.Stages[i]
		}
	}
	return nil
}

// ProgressPercent returns completed stages over total, 0-100
func (p *Process) ProgressPercent() int {
	if len(p.Stages) == 0 {
		return 0
	}
	completed := 0
	for i := range p.Stages {
		if p.Stages[i].Status == StageStatusCompleted {
			completed++
		}
	}
	return completed * 100 / len(p.Stages)
}

// StartStage moves the named stage to in_progress. It must be the
// current stage and every earlier stage must be completed.
func (p *Process) StartStage(name string) error {
	if p.Status != StatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Process is not in progress")
	}

	stage := p.StageByName(name)
	if stage == nil {
		return shared.NewDomainError("UNKNOWN_STAGE", "Stage does not belong to this process")
	}
	if stage.Status == StageStatusCompleted {
		return shared.NewDomainError("STAGE_COMPLETED", "Stage is already completed")
	}

	current := p.CurrentStage()
	if current == nil || current.Name != name {
		return shared.NewDomainError("STAGE_ORDER", "Earlier stages must complete before this stage can start")
	}

	now := time.Now()
	stage.Status = StageStatusInProgress
	stage.StartedAt = &now
	stage.UpdatedAt = now
	p.UpdatedAt = now
	p.IncrementVersion()
	p.AddDomainEvent(NewStageChangedEvent(p, stage))

	return nil
}

// CompleteStage completes the named stage. Completing the final stage
// completes the whole process.
func (p *Process) CompleteStage(name, notes string) error {
	if p.Status != StatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Process is not in progress")
	}

	stage := p.StageByName(name)
	if stage == nil {
		return shared.NewDomainError("UNKNOWN_STAGE", "Stage does not belong to this process")
	}

	current := p.CurrentStage()
	if current == nil || current.Name != name {
		return shared.NewDomainError("STAGE_ORDER", "Earlier stages must complete before this stage can complete")
	}

	now := time.Now()
	if stage.StartedAt == nil {
		stage.StartedAt = &now
	}
	stage.Status = StageStatusCompleted
	stage.CompletedAt = &now
	stage.Notes = notes
	stage.UpdatedAt = now
	p.UpdatedAt = now
	p.IncrementVersion()
	p.AddDomainEvent(NewStageChangedEvent(p, stage))

	if p.CurrentStage() == nil {
		p.Status = StatusCompleted
		p.AddDomainEvent(NewCompletedEvent(p))
	}

	return nil
}

// FailStage fails the named stage, failing the whole process. A failed
// process can be restarted with RestartStage.
func (p *Process) FailStage(name, reason string) error {
	if p.Status != StatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Process is not in progress")
	}

	stage := p.StageByName(name)
	if stage == nil {
		return shared.NewDomainError("UNKNOWN_STAGE", "Stage does not belong to this process")
	}

	current := p.CurrentStage()
	if current == nil || current.Name != name {
		return shared.NewDomainError("STAGE_ORDER", "Only the current stage can fail")
	}

	now := time.Now()
	stage.Status = StageStatusFailed
	stage.Notes = reason
	stage.UpdatedAt = now
	p.Status = StatusFailed
	p.UpdatedAt = now
	p.IncrementVersion()
	p.AddDomainEvent(NewStageChangedEvent(p, stage))

	return nil
}

// RestartStage resets a failed stage to pending and resumes the process
func (p *Process) RestartStage(name string) error {
	if p.Status != StatusFailed {
		return shared.NewDomainError("INVALID_STATE", "Only a failed process can be restarted")
	}

	stage := p.StageByName(name)
	if stage == nil {
		return shared.NewDomainError("UNKNOWN_STAGE", "Stage does not belong to this process")
	}
	if stage.Status != StageStatusFailed {
		return shared.NewDomainError("INVALID_STATE", "Stage is not failed")
	}

	now := time.Now()
	stage.Status = StageStatusPending
	stage.StartedAt = nil
	stage.Notes = ""
	stage.UpdatedAt = now
	p.Status = StatusInProgress
	p.UpdatedAt = now
	p.IncrementVersion()
	p.AddDomainEvent(NewStageChangedEvent(p, stage))

	return nil
}

// StageMap returns stage name to status, the shape the UI polls
func (p *Process) StageMap() map[string]StageStatus {
	m := make(map[string]StageStatus, len(p.Stages))
	for i := range p.Stages {
		m[p.Stages[i].Name] = p.Stages[i].Status
	}
	return m
}

// IsCompleted returns true once every stage has completed
func (p *Process) IsCompleted() bool {
	return p.Status == StatusCompleted
}
