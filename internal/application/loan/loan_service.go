package loan

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/domain/loan"
	"github.com/tradewiser/backend/internal/domain/payment"
	"github.com/tradewiser/backend/internal/domain/receipt"
	"github.com/tradewiser/backend/internal/domain/shared"
	"github.com/tradewiser/backend/internal/infrastructure/cache"
)

// IdempotencyTTL is how long a processed Idempotency-Key keeps
// returning its original repayment result.
const IdempotencyTTL = 24 * time.Hour

// Service handles receipt-collateralized loans
type Service struct {
	loanRepo    loan.Repository
	receiptRepo receipt.Repository
	paymentRepo payment.Repository
	idempotency cache.IdempotencyStore
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewService creates a new loan service
func NewService(
	loanRepo loan.Repository,
	receiptRepo receipt.Repository,
	paymentRepo payment.Repository,
	idempotency cache.IdempotencyStore,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		loanRepo:    loanRepo,
		receiptRepo: receiptRepo,
		paymentRepo: paymentRepo,
		idempotency: idempotency,
		publisher:   publisher,
		logger:      logger,
	}
}

// Apply validates the collateral and creates a pending loan. The
// receipt must be an active one owned by the borrower; it becomes
// collateralized on success.
func (s *Service) Apply(ctx context.Context, borrowerID uuid.UUID, req ApplyRequest) (*Response, error) {
	r, err := s.receiptRepo.FindByIDForOwner(ctx, req.ReceiptID, borrowerID)
	if err != nil {
		return nil, err
	}

	l, err := loan.Apply(borrowerID, r.ID, req.Principal, r.Valuation, req.RatePercent, req.TermMonths)
	if err != nil {
		return nil, err
	}

	if err := r.Collateralize(); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, r); err != nil {
		s.logger.Error("failed to collateralize receipt", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to collateralize receipt")
	}
	if err := s.loanRepo.Save(ctx, l); err != nil {
		s.logger.Error("failed to save loan", zap.Error(err))
		s.rollbackCollateral(ctx, r)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create loan")
	}

	s.publishLoan(ctx, l)
	s.publishReceipt(ctx, r)

	s.logger.Info("loan applied",
		zap.String("loan_id", l.ID.String()),
		zap.String("receipt_id", r.ID.String()),
		zap.String("principal", l.Principal.String()),
	)

	response := ToResponse(l)
	return &response, nil
}

// Approve disburses a pending loan. Reserved for operator roles by the
// HTTP layer.
func (s *Service) Approve(ctx context.Context, loanID uuid.UUID) (*Response, error) {
	l, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := l.Disburse(); err != nil {
		return nil, err
	}
	if err := s.loanRepo.Save(ctx, l); err != nil {
		s.logger.Error("failed to save loan disbursal", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to disburse loan")
	}

	s.publishLoan(ctx, l)
	s.logger.Info("loan disbursed", zap.String("loan_id", l.ID.String()))

	response := ToResponse(l)
	return &response, nil
}

// Repay applies a repayment, records its payment and releases the
// collateral when the loan settles. When idempotencyKey is non-empty,
// a replayed request returns the original result instead of deducting
// the balance twice.
func (s *Service) Repay(ctx context.Context, borrowerID, loanID uuid.UUID, idempotencyKey string, req RepayRequest) (*RepayResult, error) {
	if idempotencyKey != "" && s.idempotency != nil {
		if payload, found, err := s.idempotency.GetResult(ctx, idempotencyKey); err == nil && found {
			var cached RepayResult
			if err := json.Unmarshal([]byte(payload), &cached); err == nil {
				return &cached, nil
			}
		}
		claimed, err := s.idempotency.Reserve(ctx, idempotencyKey, IdempotencyTTL)
		if err != nil {
			s.logger.Warn("idempotency reserve failed", zap.Error(err))
		} else if !claimed {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", "A repayment with this idempotency key is already in progress")
		}
	}

	result, err := s.repay(ctx, borrowerID, loanID, req)
	if err != nil {
		if idempotencyKey != "" && s.idempotency != nil {
			if relErr := s.idempotency.Release(ctx, idempotencyKey); relErr != nil {
				s.logger.Warn("idempotency release failed", zap.Error(relErr))
			}
		}
		return nil, err
	}

	if idempotencyKey != "" && s.idempotency != nil {
		if payload, err := json.Marshal(result); err == nil {
			if err := s.idempotency.SaveResult(ctx, idempotencyKey, string(payload), IdempotencyTTL); err != nil {
				s.logger.Warn("idempotency save failed", zap.Error(err))
			}
		}
	}
	return result, nil
}

func (s *Service) repay(ctx context.Context, borrowerID, loanID uuid.UUID, req RepayRequest) (*RepayResult, error) {
	l, err := s.loanRepo.FindByIDForOwner(ctx, loanID, borrowerID)
	if err != nil {
		return nil, err
	}

	settled, err := l.Repay(req.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.loanRepo.Save(ctx, l); err != nil {
		s.logger.Error("failed to save repayment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record repayment")
	}

	pay, err := payment.New(borrowerID, payment.KindLoanRepayment, payment.Method(req.Method), l.ID, req.Amount)
	if err != nil {
		return nil, err
	}
	if err := pay.Complete(""); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, pay); err != nil {
		s.logger.Error("failed to save repayment payment", zap.Error(err))
	}

	if settled {
		r, err := s.receiptRepo.FindByID(ctx, l.ReceiptID)
		if err == nil {
			if err := r.ReleaseCollateral(); err == nil {
				if err := s.receiptRepo.Save(ctx, r); err != nil {
					s.logger.Error("failed to release collateral", zap.Error(err))
				}
				s.publishReceipt(ctx, r)
			}
		}
	}

	s.publishLoan(ctx, l)
	s.publishPayment(ctx, pay)

	s.logger.Info("loan repayment recorded",
		zap.String("loan_id", l.ID.String()),
		zap.String("amount", req.Amount.String()),
		zap.Bool("settled", settled),
	)

	return &RepayResult{
		Loan:      ToResponse(l),
		Settled:   settled,
		PaymentID: pay.ID,
	}, nil
}

// Get retrieves a loan scoped to the borrower
func (s *Service) Get(ctx context.Context, borrowerID, loanID uuid.UUID) (*Response, error) {
	l, err := s.loanRepo.FindByIDForOwner(ctx, loanID, borrowerID)
	if err != nil {
		return nil, err
	}
	response := ToResponse(l)
	return &response, nil
}

// List retrieves the borrower's loans
func (s *Service) List(ctx context.Context, borrowerID uuid.UUID, filter ListFilter) ([]Response, int64, error) {
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	items, err := s.loanRepo.FindAllForOwner(ctx, borrowerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.loanRepo.Count(ctx, borrowerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]Response, 0, len(items))
	for _, l := range items {
		responses = append(responses, ToResponse(l))
	}
	return responses, total, nil
}

// AccrueInterest walks active loans and adds simple interest since the
// last accrual. Intended to run on a schedule.
func (s *Service) AccrueInterest(ctx context.Context, now time.Time) (int, error) {
	loans, err := s.loanRepo.FindActive(ctx, shared.Filter{PageSize: 500})
	if err != nil {
		return 0, err
	}

	accrued := 0
	for _, l := range loans {
		interest := l.AccrueInterest(now)
		if interest.IsZero() {
			continue
		}
		if err := s.loanRepo.Save(ctx, l); err != nil {
			s.logger.Error("failed to save interest accrual",
				zap.String("loan_id", l.ID.String()),
				zap.Error(err),
			)
			continue
		}
		accrued++
	}

	if accrued > 0 {
		s.logger.Info("interest accrued", zap.Int("loans", accrued))
	}
	return accrued, nil
}

// DefaultOverdue flags active loans past their maturity date as
// defaulted. Runs on the same schedule as interest accrual.
func (s *Service) DefaultOverdue(ctx context.Context, now time.Time) (int, error) {
	loans, err := s.loanRepo.FindActive(ctx, shared.Filter{PageSize: 500})
	if err != nil {
		return 0, err
	}

	defaulted := 0
	for _, l := range loans {
		due := l.DueAt()
		if due.IsZero() || now.Before(due) {
			continue
		}
		if err := l.MarkDefaulted(); err != nil {
			continue
		}
		if err := s.loanRepo.Save(ctx, l); err != nil {
			s.logger.Error("failed to save loan default",
				zap.String("loan_id", l.ID.String()),
				zap.Error(err),
			)
			continue
		}
		s.logger.Warn("loan defaulted",
			zap.String("loan_id", l.ID.String()),
			zap.Time("due_at", due),
		)
		defaulted++
	}
	return defaulted, nil
}

// rollbackCollateral frees a receipt that was pledged for a loan that
// never got saved. Without it the receipt would stay collateralized
// with no loan to repay.
func (s *Service) rollbackCollateral(ctx context.Context, r *receipt.WarehouseReceipt) {
	if err := r.ReleaseCollateral(); err != nil {
		s.logger.Error("failed to roll back collateral",
			zap.String("receipt_id", r.ID.String()),
			zap.Error(err),
		)
		return
	}
	r.ClearDomainEvents()
	if err := s.receiptRepo.Save(ctx, r); err != nil {
		s.logger.Error("failed to save collateral rollback",
			zap.String("receipt_id", r.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) publishLoan(ctx context.Context, l *loan.Loan) {
	if s.publisher == nil {
		return
	}
	if events := l.GetDomainEvents(); len(events) > 0 {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish loan events", zap.Error(err))
		}
		l.ClearDomainEvents()
	}
}

func (s *Service) publishReceipt(ctx context.Context, r *receipt.WarehouseReceipt) {
	if s.publisher == nil {
		return
	}
	if events := r.GetDomainEvents(); len(events) > 0 {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish receipt events", zap.Error(err))
		}
		r.ClearDomainEvents()
	}
}

func (s *Service) publishPayment(ctx context.Context, p *payment.Payment) {
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
