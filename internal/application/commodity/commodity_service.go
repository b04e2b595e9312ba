package commodity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/domain/commodity"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// Service handles commodity queries, sack splitting and sack transfers
type Service struct {
	repo      commodity.Repository
	sackRepo  commodity.SackRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates a new commodity service
func NewService(
	repo commodity.Repository,
	sackRepo commodity.SackRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		sackRepo:  sackRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Get retrieves a commodity scoped to the owner
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Response, error) {
	c, err := s.repo.FindByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	response := ToResponse(c)
	return &response, nil
}

// List retrieves the owner's commodities with filtering and pagination
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]Response, int64, error) {
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
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.WarehouseID != nil {
		domainFilter.Filters["warehouse_id"] = *filter.WarehouseID
	}

	items, err := s.repo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]Response, 0, len(items))
	for _, c := range items {
		responses = append(responses, ToResponse(c))
	}
	return responses, total, nil
}

// Split divides an active commodity lot into equally weighted sacks.
// Splitting again replaces nothing; existing sacks stay as they are.
func (s *Service) Split(ctx context.Context, ownerID, id uuid.UUID, req SplitRequest) ([]SackResponse, error) {
	c, err := s.repo.FindByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	existing, err := s.sackRepo.FindByCommodity(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, shared.NewDomainError("ALREADY_SPLIT", "Commodity has already been split into sacks")
	}

	sacks, err := c.Split(req.Count)
	if err != nil {
		return nil, err
	}

	if err := s.sackRepo.SaveAll(ctx, sacks); err != nil {
		s.logger.Error("failed to save sacks", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to split commodity")
	}

	s.logger.Info("commodity split into sacks",
		zap.String("commodity_id", c.ID.String()),
		zap.Int("count", len(sacks)),
	)

	return ToSackResponses(sacks), nil
}

// ListSacks retrieves the sacks of one commodity, scoped to the owner
func (s *Service) ListSacks(ctx context.Context, ownerID, commodityID uuid.UUID) ([]SackResponse, error) {
	if _, err := s.repo.FindByIDForOwner(ctx, commodityID, ownerID); err != nil {
		return nil, err
	}

	sacks, err := s.sackRepo.FindByCommodity(ctx, commodityID)
	if err != nil {
		return nil, err
	}
	return ToSackResponses(sacks), nil
}

// GetSack retrieves one sack owned by the caller
func (s *Service) GetSack(ctx context.Context, ownerID, sackID uuid.UUID) (*SackResponse, error) {
	sack, err := s.sackRepo.FindByID(ctx, sackID)
	if err != nil {
		return nil, err
	}
	if sack.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}

	response := ToSackResponse(sack)
	return &response, nil
}

// TransferSack moves ownership of one sack to another user
func (s *Service) TransferSack(ctx context.Context, ownerID, sackID uuid.UUID, req TransferSackRequest) (*SackResponse, error) {
	sack, err := s.sackRepo.FindByID(ctx, sackID)
	if err != nil {
		return nil, err
	}
	if sack.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}

	if err := sack.TransferTo(req.ToUserID); err != nil {
		return nil, err
	}
	if err := s.sackRepo.Save(ctx, sack); err != nil {
		s.logger.Error("failed to save sack transfer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to transfer sack")
	}

	s.publishEvents(ctx, sack.GetDomainEvents())
	sack.ClearDomainEvents()

	s.logger.Info("sack transferred",
		zap.String("sack_id", sack.ID.String()),
		zap.String("to_user_id", req.ToUserID.String()),
	)

	response := ToSackResponse(sack)
	return &response, nil
}

func (s *Service) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish commodity events", zap.Error(err))
	}
}
