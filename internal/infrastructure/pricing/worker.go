package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/domain/commodity"
	"github.com/tradewiser/backend/internal/domain/receipt"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// QuoteFetcher fetches the current market price for a category
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, category string) (*Quote, error)
}

// Worker periodically refreshes commodity and receipt valuations from
// the market price feed. One failed category does not stop the others.
type Worker struct {
	fetcher      QuoteFetcher
	commodities  commodity.Repository
	receipts     receipt.Repository
	publisher    shared.EventPublisher
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewWorker creates a pricing worker
func NewWorker(
	fetcher QuoteFetcher,
	commodities commodity.Repository,
	receipts receipt.Repository,
	publisher shared.EventPublisher,
	pollInterval time.Duration,
	logger *zap.Logger,
) *Worker {
	if pollInterval <= 0 {
		pollInterval = 15 * time.Minute
	}
	return &Worker{
		fetcher:      fetcher,
		commodities:  commodities,
		receipts:     receipts,
		publisher:    publisher,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Run polls the price feed until the context is cancelled. The first
// refresh happens immediately, then every poll interval.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("pricing worker started",
		zap.Duration("poll_interval", w.pollInterval),
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.refreshAll(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("pricing worker stopped")
			return
		case <-ticker.C:
			w.refreshAll(ctx)
		}
	}
}

func (w *Worker) refreshAll(ctx context.Context) {
	for _, category := range commodity.Categories() {
		if ctx.Err() != nil {
			return
		}
		if err := w.refreshCategory(ctx, category); err != nil {
			w.logger.Warn("failed to refresh category prices",
				zap.String("category", string(category)),
				zap.Error(err),
			)
		}
	}
}

// refreshCategory fetches one quote and revalues every active commodity
// in the category along with its receipt.
func (w *Worker) refreshCategory(ctx context.Context, category commodity.Category) error {
	quote, err := w.fetcher.FetchQuote(ctx, string(category))
	if err != nil {
		return err
	}

	commodities, err := w.commodities.FindActiveByCategory(ctx, category)
	if err != nil {
		return err
	}

	updated := 0
	for _, c := range commodities {
		oldValuation := c.Valuation
		if err := c.Revalue(quote.PricePerMT); err != nil {
			w.logger.Warn("failed to revalue commodity",
				zap.String("commodity_id", c.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if c.Valuation.Equal(oldValuation) {
			continue
		}
		if err := w.commodities.Save(ctx, c); err != nil {
			w.logger.Error("failed to save revalued commodity",
				zap.String("commodity_id", c.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if err := w.publisher.Publish(ctx, c.GetDomainEvents()...); err != nil {
			w.logger.Warn("failed to publish revaluation events", zap.Error(err))
		}
		c.ClearDomainEvents()

		w.refreshReceipt(ctx, c.ID, c.Valuation)
		updated++
	}

	if updated > 0 {
		w.logger.Info("category revalued",
			zap.String("category", string(category)),
			zap.String("price_per_mt", quote.PricePerMT.String()),
			zap.Int("commodities", updated),
		)
	}
	return nil
}

func (w *Worker) refreshReceipt(ctx context.Context, commodityID uuid.UUID, valuation decimal.Decimal) {
	wr, err := w.receipts.FindByCommodity(ctx, commodityID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			w.logger.Warn("failed to load receipt for revaluation",
				zap.String("commodity_id", commodityID.String()),
				zap.Error(err),
			)
		}
		return
	}
	if !wr.IsActive() {
		return
	}

	if err := wr.Revalue(valuation); err != nil {
		return
	}
	if err := w.receipts.Save(ctx, wr); err != nil {
		w.logger.Error("failed to save revalued receipt",
			zap.String("receipt_id", wr.ID.String()),
			zap.Error(err),
		)
		return
	}
	if err := w.publisher.Publish(ctx, wr.GetDomainEvents()...); err != nil {
		w.logger.Warn("failed to publish revaluation events", zap.Error(err))
	}
	wr.ClearDomainEvents()
}
