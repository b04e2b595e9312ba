package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/domain/commodity"
	"github.com/tradewiser/backend/internal/domain/process"
	"github.com/tradewiser/backend/internal/domain/receipt"
	"github.com/tradewiser/backend/internal/domain/shared"
	"github.com/tradewiser/backend/internal/infrastructure/cache"
)

// DefaultPresignExpiry is how long presigned attachment URLs stay valid
const DefaultPresignExpiry = 15 * time.Minute

// Service handles eWR queries, verification, transfer, withdrawal and
// attachments
type Service struct {
	receiptRepo   receipt.Repository
	commodityRepo commodity.Repository
	processRepo   process.Repository
	storage       DocumentStorage
	verifyCache   cache.VerificationCache
	publisher     shared.EventPublisher
	logger        *zap.Logger
	presignExpiry time.Duration
}

// NewService creates a new receipt service
func NewService(
	receiptRepo receipt.Repository,
	commodityRepo commodity.Repository,
	processRepo process.Repository,
	storage DocumentStorage,
	verifyCache cache.VerificationCache,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		receiptRepo:   receiptRepo,
		commodityRepo: commodityRepo,
		processRepo:   processRepo,
		storage:       storage,
		verifyCache:   verifyCache,
		publisher:     publisher,
		logger:        logger,
		presignExpiry: DefaultPresignExpiry,
	}
}

// Get retrieves a receipt scoped to the owner
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Response, error) {
	r, err := s.receiptRepo.FindByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	response := ToResponse(r)
	return &response, nil
}

// List retrieves the owner's receipts with filtering and pagination
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
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	items, err := s.receiptRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.receiptRepo.Count(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]Response, 0, len(items))
	for _, r := range items {
		responses = append(responses, ToResponse(r))
	}
	return responses, total, nil
}

// Issue issues a receipt directly for an active commodity. The normal
// path goes through deposit process completion; direct issuance covers
// orange-channel warehouses where an operator verifies first.
func (s *Service) Issue(ctx context.Context, ownerID, commodityID uuid.UUID) (*Response, error) {
	c, err := s.commodityRepo.FindByIDForOwner(ctx, commodityID, ownerID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Receipts can only be issued for active commodities")
	}

	if existing, err := s.receiptRepo.FindByCommodity(ctx, c.ID); err == nil && existing != nil {
		if existing.Status != receipt.StatusWithdrawn && existing.Status != receipt.StatusExpired {
			return nil, shared.NewDomainError("ALREADY_ISSUED", "Commodity already has a live receipt")
		}
	}

	r, err := receipt.Issue(c.OwnerID, c.ID, c.WarehouseID, c.QuantityMT, c.Valuation)
	if err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, r); err != nil {
		s.logger.Error("failed to save receipt", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to issue receipt")
	}

	s.publishEvents(ctx, r)
	s.logger.Info("receipt issued",
		zap.String("receipt_id", r.ID.String()),
		zap.String("number", r.Number),
	)

	response := ToResponse(r)
	return &response, nil
}

// VerifyByCode resolves a verification code to the public receipt
// payload. Unauthenticated; hits redis before the database.
func (s *Service) VerifyByCode(ctx context.Context, code string) (*VerifyResponse, error) {
	if code == "" {
		return nil, shared.ErrNotFound
	}

	if s.verifyCache != nil {
		if payload, ok, err := s.verifyCache.Get(ctx, code); err != nil {
			s.logger.Warn("verification cache read failed", zap.Error(err))
		} else if ok {
			var cached VerifyResponse
			if err := json.Unmarshal([]byte(payload), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	r, err := s.receiptRepo.FindByVerificationCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := ToVerifyResponse(r)
	if s.verifyCache != nil {
		// A valid payload must not be served past the receipt's expiry,
		// so the cache entry cannot outlive the validity window.
		var maxTTL time.Duration
		if response.Valid {
			maxTTL = time.Until(r.ExpiresAt)
		}
		if payload, err := json.Marshal(response); err == nil {
			if err := s.verifyCache.Set(ctx, code, string(payload), maxTTL); err != nil {
				s.logger.Warn("verification cache write failed", zap.Error(err))
			}
		}
	}

	return &response, nil
}

// Transfer moves receipt ownership to another user
func (s *Service) Transfer(ctx context.Context, ownerID, id uuid.UUID, req TransferRequest) (*Response, error) {
	r, err := s.receiptRepo.FindByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if err := r.TransferTo(req.ToUserID); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, r); err != nil {
		s.logger.Error("failed to save receipt transfer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to transfer receipt")
	}

	c, err := s.commodityRepo.FindByID(ctx, r.CommodityID)
	if err == nil {
		if err := c.TransferTo(req.ToUserID); err == nil {
			if err := s.commodityRepo.Save(ctx, c); err != nil {
				s.logger.Error("failed to transfer commodity with receipt", zap.Error(err))
			}
			s.publishCommodity(ctx, c)
		}
	}

	s.publishEvents(ctx, r)
	s.invalidateVerifyCache(ctx, r.VerificationCode)
	s.logger.Info("receipt transferred",
		zap.String("receipt_id", r.ID.String()),
		zap.String("to_user_id", req.ToUserID.String()),
	)

	response := ToResponse(r)
	return &response, nil
}

// Withdraw starts the withdrawal pipeline for a receipt. The receipt
// moves to in_transfer; it becomes withdrawn when the process completes.
func (s *Service) Withdraw(ctx context.Context, ownerID, id uuid.UUID) (*Response, error) {
	r, err := s.receiptRepo.FindByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if err := r.BeginWithdrawal(); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, r); err != nil {
		s.logger.Error("failed to save receipt", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to start withdrawal")
	}

	p := process.NewWithdrawal(ownerID, r.CommodityID, r.WarehouseID, r.ID)
	if err := s.processRepo.Save(ctx, p); err != nil {
		s.logger.Error("failed to save withdrawal process", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to start withdrawal tracking")
	}

	s.publishEvents(ctx, r)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, p.GetDomainEvents()...); err != nil {
			s.logger.Error("failed to publish withdrawal events", zap.Error(err))
		}
		p.ClearDomainEvents()
	}
	s.invalidateVerifyCache(ctx, r.VerificationCode)

	s.logger.Info("withdrawal started",
		zap.String("receipt_id", r.ID.String()),
		zap.String("process_id", p.ID.String()),
	)

	response := ToResponse(r)
	return &response, nil
}

// RequestUpload issues a presigned PUT URL for a new attachment
func (s *Service) RequestUpload(ctx context.Context, ownerID, id uuid.UUID, req RequestUploadRequest) (*RequestUploadResponse, error) {
	r, err := s.receiptRepo.FindByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	storageKey := fmt.Sprintf("receipts/%s/%s-%s", r.ID, uuid.New().String()[:8], req.FileName)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, req.ContentType, s.presignExpiry)
	if err != nil {
		s.logger.Error("failed to presign upload", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare attachment upload")
	}

	return &RequestUploadResponse{
		StorageKey: storageKey,
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmUpload records an uploaded attachment after checking the
// object actually landed in storage
func (s *Service) ConfirmUpload(ctx context.Context, ownerID, id uuid.UUID, req ConfirmUploadRequest) (*Response, error) {
	r, err := s.receiptRepo.FindByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, req.StorageKey)
	if err != nil {
		s.logger.Error("failed to check uploaded object", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to verify the uploaded file")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_MISSING", "Uploaded file was not found in storage")
	}

	if _, err := r.AddAttachment(req.FileName, req.StorageKey, req.ContentType, req.SizeBytes, ownerID); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, r); err != nil {
		s.logger.Error("failed to save attachment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record attachment")
	}

	response := ToResponse(r)
	return &response, nil
}

// DownloadURL issues a presigned GET URL for an existing attachment
func (s *Service) DownloadURL(ctx context.Context, ownerID, id uuid.UUID, attachmentID uuid.UUID) (*DownloadResponse, error) {
	r, err := s.receiptRepo.FindByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	var storageKey string
	for i := range r.Attachments {
		if r.Attachments[i].ID == attachmentID {
			storageKey = r.Attachments[i].StorageKey
			break
		}
	}
	if storageKey == "" {
		return nil, shared.ErrNotFound
	}

	downloadURL, expiresAt, err := s.storage.GenerateDownloadURL(ctx, storageKey, s.presignExpiry)
	if err != nil {
		s.logger.Error("failed to presign download", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare attachment download")
	}

	return &DownloadResponse{
		DownloadURL: downloadURL,
		ExpiresAt:   expiresAt,
	}, nil
}

// ExpireLapsed marks active receipts past their validity window as
// expired and drops their cached verification payloads. Runs on a
// schedule.
func (s *Service) ExpireLapsed(ctx context.Context, now time.Time) (int, error) {
	receipts, err := s.receiptRepo.FindActiveExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, r := range receipts {
		if err := r.MarkExpired(); err != nil {
			continue
		}
		if err := s.receiptRepo.Save(ctx, r); err != nil {
			s.logger.Error("failed to save receipt expiry",
				zap.String("receipt_id", r.ID.String()),
				zap.Error(err),
			)
			continue
		}
		s.publishEvents(ctx, r)
		s.invalidateVerifyCache(ctx, r.VerificationCode)
		expired++
	}

	if expired > 0 {
		s.logger.Info("receipts expired", zap.Int("receipts", expired))
	}
	return expired, nil
}

func (s *Service) publishEvents(ctx context.Context, r *receipt.WarehouseReceipt) {
	if s.publisher == nil {
		return
	}
	events := r.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish receipt events", zap.Error(err))
	}
	r.ClearDomainEvents()
}

func (s *Service) publishCommodity(ctx context.Context, c *commodity.Commodity) {
	if s.publisher == nil {
		return
	}
	events := c.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish commodity events", zap.Error(err))
	}
	c.ClearDomainEvents()
}

func (s *Service) invalidateVerifyCache(ctx context.Context, code string) {
	if s.verifyCache == nil {
		return
	}
	if err := s.verifyCache.Invalidate(ctx, code); err != nil {
		s.logger.Warn("failed to invalidate verification cache", zap.Error(err))
	}
}
