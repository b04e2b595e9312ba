package payment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/domain/payment"
	"github.com/tradewiser/backend/internal/domain/receipt"
	"github.com/tradewiser/backend/internal/domain/shared"
	"github.com/tradewiser/backend/internal/domain/warehouse"
	"github.com/tradewiser/backend/internal/infrastructure/cache"
)

// IdempotencyTTL is how long a processed Idempotency-Key keeps
// returning its original response.
const IdempotencyTTL = 24 * time.Hour

// Service records storage fee payments and exposes payment history
type Service struct {
	paymentRepo   payment.Repository
	warehouseRepo warehouse.Repository
	receiptRepo   receipt.Repository
	idempotency   cache.IdempotencyStore
	publisher     shared.EventPublisher
	logger        *zap.Logger
}

// NewService creates a new payment service
func NewService(
	paymentRepo payment.Repository,
	warehouseRepo warehouse.Repository,
	receiptRepo receipt.Repository,
	idempotency cache.IdempotencyStore,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		paymentRepo:   paymentRepo,
		warehouseRepo: warehouseRepo,
		receiptRepo:   receiptRepo,
		idempotency:   idempotency,
		publisher:     publisher,
		logger:        logger,
	}
}

// PayStorageFee charges the monthly storage fee for a receipt held in
// the given warehouse. When idempotencyKey is non-empty, a replayed
// request returns the original payment instead of charging twice.
func (s *Service) PayStorageFee(ctx context.Context, payerID, warehouseID uuid.UUID, idempotencyKey string, req PayFeesRequest) (*Response, error) {
	if idempotencyKey != "" {
		if payload, found, err := s.idempotency.GetResult(ctx, idempotencyKey); err == nil && found {
			var cached Response
			if err := json.Unmarshal([]byte(payload), &cached); err == nil {
				return &cached, nil
			}
		}
		claimed, err := s.idempotency.Reserve(ctx, idempotencyKey, IdempotencyTTL)
		if err != nil {
			s.logger.Warn("idempotency reserve failed", zap.Error(err))
		} else if !claimed {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", "A payment with this idempotency key is already in progress")
		}
	}

	resp, err := s.payStorageFee(ctx, payerID, warehouseID, req)
	if err != nil {
		if idempotencyKey != "" {
			if relErr := s.idempotency.Release(ctx, idempotencyKey); relErr != nil {
				s.logger.Warn("idempotency release failed", zap.Error(relErr))
			}
		}
		return nil, err
	}

	if idempotencyKey != "" {
		payload, err := json.Marshal(resp)
		if err == nil {
			if err := s.idempotency.SaveResult(ctx, idempotencyKey, string(payload), IdempotencyTTL); err != nil {
				s.logger.Warn("idempotency save failed", zap.Error(err))
			}
		}
	}
	return resp, nil
}

func (s *Service) payStorageFee(ctx context.Context, payerID, warehouseID uuid.UUID, req PayFeesRequest) (*Response, error) {
	w, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	r, err := s.receiptRepo.FindByIDForOwner(ctx, req.ReceiptID, payerID)
	if err != nil {
		return nil, err
	}
	if r.WarehouseID != w.ID {
		return nil, shared.NewDomainError("RECEIPT_WAREHOUSE_MISMATCH", "Receipt is not stored in this warehouse")
	}

	months := req.Months
	if months <= 0 {
		months = 1
	}
	fee := w.MonthlyFee(r.QuantityMT).Mul(decimal.NewFromInt(int64(months)))
	if fee.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("NO_FEE_DUE", "No storage fee is due for this receipt")
	}

	p, err := payment.New(payerID, payment.KindStorageFee, payment.Method(req.Method), w.ID, fee)
	if err != nil {
		return nil, err
	}
	if err := p.Complete(""); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, p); err != nil {
		s.logger.Error("failed to save storage fee payment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record payment")
	}

	s.publishEvents(ctx, p)
	s.logger.Info("storage fee paid",
		zap.String("warehouse_id", w.ID.String()),
		zap.String("receipt_id", r.ID.String()),
		zap.Int("months", months),
		zap.String("amount", fee.String()),
	)

	response := ToResponse(p)
	return &response, nil
}

// Get retrieves a payment scoped to the payer
func (s *Service) Get(ctx context.Context, payerID, paymentID uuid.UUID) (*Response, error) {
	p, err := s.paymentRepo.FindByIDForOwner(ctx, paymentID, payerID)
	if err != nil {
		return nil, err
	}
	response := ToResponse(p)
	return &response, nil
}

// List retrieves the payer's payment history
func (s *Service) List(ctx context.Context, payerID uuid.UUID, filter ListFilter) ([]Response, int64, error) {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	items, err := s.paymentRepo.FindAllForOwner(ctx, payerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.paymentRepo.Count(ctx, payerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]Response, 0, len(items))
	for _, p := range items {
		responses = append(responses, ToResponse(p))
	}
	return responses, total, nil
}

func (s *Service) publishEvents(ctx context.Context, p *payment.Payment) {
	if s.publisher == nil {
		return
	}
	if events := p.GetDomainEvents(); len(events) > 0 {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish payment events", zap.Error(err))
		}
		p.ClearDomainEvents()
	}
}
