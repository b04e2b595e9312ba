package receipt

import (
	"context"

	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/domain/commodity"
	"github.com/tradewiser/backend/internal/domain/process"
	"github.com/tradewiser/backend/internal/domain/receipt"
	"github.com/tradewiser/backend/internal/domain/shared"
	"github.com/tradewiser/backend/internal/domain/warehouse"
)

// IssuerHandler reacts to completed tracking processes. A completed
// deposit activates the commodity and issues its eWR; a completed
// withdrawal retires the receipt and frees warehouse capacity.
type IssuerHandler struct {
	receiptRepo   receipt.Repository
	commodityRepo commodity.Repository
	warehouseRepo warehouse.Repository
	publisher     shared.EventPublisher
	logger        *zap.Logger
}

// NewIssuerHandler creates a new issuer handler
func NewIssuerHandler(
	receiptRepo receipt.Repository,
	commodityRepo commodity.Repository,
	warehouseRepo warehouse.Repository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *IssuerHandler {
	return &IssuerHandler{
		receiptRepo:   receiptRepo,
		commodityRepo: commodityRepo,
		warehouseRepo: warehouseRepo,
		publisher:     publisher,
		logger:        logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *IssuerHandler) EventTypes() []string {
	return []string{process.EventCompleted}
}

// Handle processes a completed tracking process
func (h *IssuerHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*process.CompletedEvent)
	if !ok {
		return nil
	}

	switch completed.Kind {
	case process.KindDeposit:
		return h.handleDepositCompleted(ctx, completed)
	case process.KindWithdrawal:
		return h.handleWithdrawalCompleted(ctx, completed)
	default:
		return nil
	}
}

func (h *IssuerHandler) handleDepositCompleted(ctx context.Context, event *process.CompletedEvent) error {
	c, err := h.commodityRepo.FindByID(ctx, event.CommodityID)
	if err != nil {
		h.logger.Error("deposit completed for unknown commodity",
			zap.String("commodity_id", event.CommodityID.String()),
			zap.Error(err),
		)
		return err
	}

	if c.Status == commodity.StatusProcessing {
		if err := c.Activate(); err != nil {
			return err
		}
		if err := h.commodityRepo.Save(ctx, c); err != nil {
			h.logger.Error("failed to activate commodity", zap.Error(err))
			return err
		}
	}

	// Only green-channel warehouses issue eWRs automatically; an orange
	// warehouse needs an operator to verify quality and issue manually.
	w, err := h.warehouseRepo.FindByID(ctx, event.WarehouseID)
	if err != nil {
		h.logger.Error("deposit completed for unknown warehouse",
			zap.String("warehouse_id", event.WarehouseID.String()),
			zap.Error(err),
		)
		return err
	}
	if !w.IsGreenChannel() {
		h.logger.Info("deposit completed, awaiting manual issuance",
			zap.String("commodity_id", c.ID.String()),
			zap.String("warehouse_id", w.ID.String()),
		)
		return nil
	}

	// The pipeline may complete twice on restart; never issue a second
	// live receipt for the same commodity.
	if existing, err := h.receiptRepo.FindByCommodity(ctx, c.ID); err == nil && existing != nil {
		if existing.Status != receipt.StatusWithdrawn && existing.Status != receipt.StatusExpired {
			return nil
		}
	}

	r, err := receipt.Issue(c.OwnerID, c.ID, c.WarehouseID, c.QuantityMT, c.Valuation)
	if err != nil {
		return err
	}
	if err := h.receiptRepo.Save(ctx, r); err != nil {
		h.logger.Error("failed to save issued receipt", zap.Error(err))
		return err
	}

	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, r.GetDomainEvents()...); err != nil {
			h.logger.Error("failed to publish receipt events", zap.Error(err))
		}
		r.ClearDomainEvents()
	}

	h.logger.Info("receipt issued from completed deposit",
		zap.String("receipt_id", r.ID.String()),
		zap.String("number", r.Number),
		zap.String("commodity_id", c.ID.String()),
	)

	return nil
}

func (h *IssuerHandler) handleWithdrawalCompleted(ctx context.Context, event *process.CompletedEvent) error {
	if event.ReceiptID == nil {
		return nil
	}

	r, err := h.receiptRepo.FindByID(ctx, *event.ReceiptID)
	if err != nil {
		return err
	}
	if err := r.CompleteWithdrawal(); err != nil {
		return err
	}
	if err := h.receiptRepo.Save(ctx, r); err != nil {
		h.logger.Error("failed to save withdrawn receipt", zap.Error(err))
		return err
	}

	c, err := h.commodityRepo.FindByID(ctx, event.CommodityID)
	if err == nil {
		if err := c.MarkWithdrawn(); err == nil {
			if err := h.commodityRepo.Save(ctx, c); err != nil {
				h.logger.Error("failed to mark commodity withdrawn", zap.Error(err))
			}
		}
	}

	w, err := h.warehouseRepo.FindByID(ctx, event.WarehouseID)
	if err == nil {
		if err := w.Release(r.QuantityMT); err == nil {
			if err := h.warehouseRepo.Save(ctx, w); err != nil {
				h.logger.Error("failed to release warehouse capacity", zap.Error(err))
			}
		}
	}

	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, r.GetDomainEvents()...); err != nil {
			h.logger.Error("failed to publish receipt events", zap.Error(err))
		}
		r.ClearDomainEvents()
	}

	h.logger.Info("withdrawal completed",
		zap.String("receipt_id", r.ID.String()),
		zap.String("commodity_id", event.CommodityID.String()),
	)

	return nil
}
