package warehouse

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/domain/shared"
	"github.com/tradewiser/backend/internal/domain/warehouse"
)

// Service handles warehouse registration and capacity management
type Service struct {
	repo      warehouse.Repository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates a new warehouse service
func NewService(repo warehouse.Repository, publisher shared.EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Create registers a new warehouse
func (s *Service) Create(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	exists, err := s.repo.ExistsByCode(ctx, req.Code)
	if err != nil {
		s.logger.Error("failed to check warehouse code", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check warehouse code")
	}
	if exists {
		return nil, shared.NewDomainError("CODE_TAKEN", "Warehouse code is already in use")
	}

	w, err := warehouse.New(req.Code, req.Name, req.Type, req.Channel, req.CapacityMT)
	if err != nil {
		return nil, err
	}

	if req.Address != "" || req.City != "" || req.State != "" {
		if err := w.Update(req.Name, req.Address, req.City, req.State); err != nil {
			return nil, err
		}
	}
	if req.Latitude != nil && req.Longitude != nil {
		if err := w.SetLocation(*req.Latitude, *req.Longitude); err != nil {
			return nil, err
		}
	}
	if !req.FeeRate.IsZero() {
		if err := w.SetFeeRate(req.FeeRate); err != nil {
			return nil, err
		}
	}
	if req.ContactName != "" || req.Phone != "" {
		w.SetContact(req.ContactName, req.Phone)
	}

	if err := s.repo.Save(ctx, w); err != nil {
		s.logger.Error("failed to save warehouse", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create warehouse")
	}

	s.publishEvents(ctx, w)
	s.logger.Info("warehouse created",
		zap.String("warehouse_id", w.ID.String()),
		zap.String("code", w.Code),
	)

	response := ToWarehouseResponse(w)
	return &response, nil
}

// Get retrieves a warehouse by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(w)
	return &response, nil
}

// GetByCode retrieves a warehouse by its code
func (s *Service) GetByCode(ctx context.Context, code string) (*WarehouseResponse, error) {
	w, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(w)
	return &response, nil
}

// List retrieves warehouses with filtering and pagination
func (s *Service) List(ctx context.Context, filter ListFilter) ([]WarehouseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Channel != "" {
		domainFilter.Filters["channel"] = filter.Channel
	}
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}
	if filter.State != "" {
		domainFilter.Filters["state"] = filter.State
	}
	if filter.HasCapacity {
		domainFilter.Filters["has_capacity"] = true
	}

	items, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToWarehouseResponses(items), total, nil
}

// Nearby finds active warehouses within the given radius of a point
func (s *Service) Nearby(ctx context.Context, query NearbyQuery) ([]WarehouseResponse, error) {
	if query.RadiusKM <= 0 {
		query.RadiusKM = 50
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	items, err := s.repo.FindNearby(ctx, query.Latitude, query.Longitude, query.RadiusKM, query.Limit)
	if err != nil {
		return nil, err
	}
	return ToWarehouseResponses(items), nil
}

// Update changes warehouse details
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := w.Update(req.Name, req.Address, req.City, req.State); err != nil {
		return nil, err
	}
	if req.Latitude != nil && req.Longitude != nil {
		if err := w.SetLocation(*req.Latitude, *req.Longitude); err != nil {
			return nil, err
		}
	}
	if req.ContactName != "" || req.Phone != "" {
		w.SetContact(req.ContactName, req.Phone)
	}

	if err := s.repo.Save(ctx, w); err != nil {
		s.logger.Error("failed to save warehouse update", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update warehouse")
	}

	response := ToWarehouseResponse(w)
	return &response, nil
}

// SetFeeRate changes the monthly storage fee rate
func (s *Service) SetFeeRate(ctx context.Context, id uuid.UUID, req SetFeeRateRequest) (*WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := w.SetFeeRate(req.FeeRatePerMT); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, w); err != nil {
		s.logger.Error("failed to save fee rate", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update fee rate")
	}

	response := ToWarehouseResponse(w)
	return &response, nil
}

// SetChannel changes the receipt-issuance channel
func (s *Service) SetChannel(ctx context.Context, id uuid.UUID, req SetChannelRequest) (*WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := w.SetChannel(req.Channel); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, w); err != nil {
		s.logger.Error("failed to save channel change", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update channel")
	}

	response := ToWarehouseResponse(w)
	return &response, nil
}

// Enable reactivates a disabled warehouse
func (s *Service) Enable(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := w.Enable(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, w); err != nil {
		s.logger.Error("failed to save warehouse", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to enable warehouse")
	}

	response := ToWarehouseResponse(w)
	return &response, nil
}

// Disable takes a warehouse out of service. Warehouses still holding
// stock cannot be disabled.
func (s *Service) Disable(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := w.Disable(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, w); err != nil {
		s.logger.Error("failed to save warehouse", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to disable warehouse")
	}

	s.publishEvents(ctx, w)
	response := ToWarehouseResponse(w)
	return &response, nil
}

func (s *Service) publishEvents(ctx context.Context, w *warehouse.Warehouse) {
	if s.publisher == nil {
		return
	}
	events := w.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish warehouse events", zap.Error(err))
	}
	w.ClearDomainEvents()
}
