package deposit

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/domain/commodity"
	"github.com/tradewiser/backend/internal/domain/process"
	"github.com/tradewiser/backend/internal/domain/shared"
	"github.com/tradewiser/backend/internal/domain/warehouse"
)

// Service handles deposit intake. An intake reserves warehouse
// capacity, records the commodity and opens its tracking process.
type Service struct {
	commodityRepo commodity.Repository
	processRepo   process.Repository
	warehouseRepo warehouse.Repository
	publisher     shared.EventPublisher
	logger        *zap.Logger
}

// NewService creates a new deposit service
func NewService(
	commodityRepo commodity.Repository,
	processRepo process.Repository,
	warehouseRepo warehouse.Repository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		commodityRepo: commodityRepo,
		processRepo:   processRepo,
		warehouseRepo: warehouseRepo,
		publisher:     publisher,
		logger:        logger,
	}
}

// Intake accepts a deposit request: it reserves capacity at the target
// warehouse, creates the commodity in processing status and starts the
// deposit tracking pipeline.
func (s *Service) Intake(ctx context.Context, ownerID uuid.UUID, req IntakeRequest) (*IntakeResponse, error) {
	w, err := s.warehouseRepo.FindByID(ctx, req.WarehouseID)
	if err != nil {
		return nil, err
	}

	if err := w.Reserve(req.QuantityMT); err != nil {
		return nil, err
	}

	c, err := commodity.New(ownerID, w.ID, req.Name, req.Category, req.QuantityMT)
	if err != nil {
		return nil, err
	}

	if err := s.warehouseRepo.Save(ctx, w); err != nil {
		s.logger.Error("failed to reserve warehouse capacity", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to reserve warehouse capacity")
	}
	if err := s.commodityRepo.Save(ctx, c); err != nil {
		s.logger.Error("failed to save commodity", zap.Error(err))
		s.releaseReservation(ctx, w, req.QuantityMT)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record deposit")
	}

	p := process.NewDeposit(ownerID, c.ID, w.ID)
	if err := s.processRepo.Save(ctx, p); err != nil {
		s.logger.Error("failed to save deposit process", zap.Error(err))
		s.releaseReservation(ctx, w, req.QuantityMT)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to start deposit tracking")
	}

	s.publishEvents(ctx, c.GetDomainEvents())
	c.ClearDomainEvents()
	s.publishEvents(ctx, p.GetDomainEvents())
	p.ClearDomainEvents()

	s.logger.Info("deposit intake accepted",
		zap.String("commodity_id", c.ID.String()),
		zap.String("process_id", p.ID.String()),
		zap.String("warehouse_id", w.ID.String()),
	)

	return &IntakeResponse{
		Commodity: ToCommodityResponse(c),
		Process:   ToProcessResponse(p),
	}, nil
}

// Get retrieves one deposit process with its commodity, scoped to the owner
func (s *Service) Get(ctx context.Context, ownerID, processID uuid.UUID) (*IntakeResponse, error) {
	p, err := s.processRepo.FindByIDForOwner(ctx, processID, ownerID)
	if err != nil {
		return nil, err
	}
	if p.Kind != process.KindDeposit {
		return nil, shared.ErrNotFound
	}

	c, err := s.commodityRepo.FindByID(ctx, p.CommodityID)
	if err != nil {
		return nil, err
	}

	return &IntakeResponse{
		Commodity: ToCommodityResponse(c),
		Process:   ToProcessResponse(p),
	}, nil
}

// List retrieves the owner's deposit processes
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]ProcessResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Filters:  map[string]interface{}{"kind": string(process.KindDeposit)},
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	items, err := s.processRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.processRepo.Count(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProcessResponse, 0, len(items))
	for _, p := range items {
		responses = append(responses, ToProcessResponse(p))
	}
	return responses, total, nil
}

// releaseReservation undoes the capacity reservation when a later step
// of the intake fails. A failed release is logged so an operator can
// reconcile the warehouse from the log line.
func (s *Service) releaseReservation(ctx context.Context, w *warehouse.Warehouse, quantityMT decimal.Decimal) {
	if err := w.Release(quantityMT); err != nil {
		s.logger.Error("failed to release reserved capacity",
			zap.String("warehouse_id", w.ID.String()),
			zap.Error(err),
		)
		return
	}
	if err := s.warehouseRepo.Save(ctx, w); err != nil {
		s.logger.Error("failed to save released capacity",
			zap.String("warehouse_id", w.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish deposit events", zap.Error(err))
	}
}
