package process

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/domain/process"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// Service handles tracking-process stage transitions
type Service struct {
	repo      process.Repository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates a new process service
func NewService(repo process.Repository, publisher shared.EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Get retrieves a process with its stage map, scoped to the owner
func (s *Service) Get(ctx context.Context, ownerID, processID uuid.UUID) (*Response, error) {
	p, err := s.repo.FindByIDForOwner(ctx, processID, ownerID)
	if err != nil {
		return nil, err
	}
	response := ToResponse(p)
	return &response, nil
}

// ListActive retrieves the owner's in-progress processes. The UI polls
// this endpoint, so it stays a single indexed query.
func (s *Service) ListActive(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]Response, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Filters:  make(map[string]interface{}),
	}
	if filter.Kind != "" {
		domainFilter.Filters["kind"] = filter.Kind
	}

	items, err := s.repo.FindActiveForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]Response, 0, len(items))
	for _, p := range items {
		responses = append(responses, ToResponse(p))
	}
	return responses, nil
}

// Advance moves the pipeline forward one step. A pending current stage
// is started; an in-progress current stage is completed. Completing the
// last stage completes the process and emits its completion event.
// Stage transitions are performed by warehouse staff, not the owner, so
// the lookup is by ID; route middleware enforces the operator role.
func (s *Service) Advance(ctx context.Context, actorID, processID uuid.UUID, req AdvanceRequest) (*Response, error) {
	p, err := s.repo.FindByID(ctx, processID)
	if err != nil {
		return nil, err
	}

	stage := p.CurrentStage()
	if stage == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Process has no remaining stages")
	}

	switch stage.Status {
	case process.StageStatusPending:
		err = p.StartStage(stage.Name)
	case process.StageStatusInProgress:
		err = p.CompleteStage(stage.Name, req.Notes)
	default:
		err = shared.NewDomainError("INVALID_STATE", "Current stage cannot advance")
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.Error("failed to save process", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to advance process")
	}

	s.publishEvents(ctx, p)
	s.logger.Info("process advanced",
		zap.String("process_id", p.ID.String()),
		zap.String("actor_id", actorID.String()),
		zap.String("stage", stage.Name),
		zap.String("status", string(p.Status)),
	)

	response := ToResponse(p)
	return &response, nil
}

// Fail fails the current stage, failing the whole process
func (s *Service) Fail(ctx context.Context, actorID, processID uuid.UUID, req FailRequest) (*Response, error) {
	p, err := s.repo.FindByID(ctx, processID)
	if err != nil {
		return nil, err
	}

	stage := p.CurrentStage()
	if stage == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Process has no remaining stages")
	}

	if err := p.FailStage(stage.Name, req.Reason); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.Error("failed to save process", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record stage failure")
	}

	s.publishEvents(ctx, p)
	s.logger.Warn("process stage failed",
		zap.String("process_id", p.ID.String()),
		zap.String("actor_id", actorID.String()),
		zap.String("stage", stage.Name),
		zap.String("reason", req.Reason),
	)

	response := ToResponse(p)
	return &response, nil
}

// Restart resets the failed stage to pending and resumes the process
func (s *Service) Restart(ctx context.Context, actorID, processID uuid.UUID) (*Response, error) {
	p, err := s.repo.FindByID(ctx, processID)
	if err != nil {
		return nil, err
	}

	var failed *process.Stage
	for i := range p.Stages {
		if p.Stages[i].Status == process.StageStatusFailed {
			failed = &p.Stages[i]
			break
		}
	}
	if failed == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Process has no failed stage")
	}

	if err := p.RestartStage(failed.Name); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.Error("failed to save process", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to restart process")
	}

	s.publishEvents(ctx, p)
	s.logger.Info("process restarted",
		zap.String("process_id", p.ID.String()),
		zap.String("actor_id", actorID.String()),
		zap.String("stage", failed.Name),
	)

	response := ToResponse(p)
	return &response, nil
}

func (s *Service) publishEvents(ctx context.Context, p *process.Process) {
	if s.publisher == nil {
		return
	}
	events := p.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish process events", zap.Error(err))
	}
	p.ClearDomainEvents()
}
