package receipt

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradewiser/backend/internal/domain/receipt"
)

// ListFilter represents filter options for receipt listing
type ListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active collateralized in_transfer withdrawn expired"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TransferRequest transfers receipt ownership
type TransferRequest struct {
	ToUserID uuid.UUID `json:"to_user_id" binding:"required"`
}

// RequestUploadRequest asks for a presigned attachment upload URL
type RequestUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,max=100"`
	SizeBytes   int64  `json:"size_bytes" binding:"required,min=1,max=26214400"`
}

// RequestUploadResponse carries the presigned PUT URL and the storage
// key the client must confirm with
type RequestUploadResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ConfirmUploadRequest records an uploaded attachment on the receipt
type ConfirmUploadRequest struct {
	StorageKey  string `json:"storage_key" binding:"required,max=512"`
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"omitempty,max=100"`
	SizeBytes   int64  `json:"size_bytes" binding:"omitempty,min=0"`
}

// DownloadResponse carries a presigned GET URL for an attachment
type DownloadResponse struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AttachmentResponse represents a stored attachment
type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	StorageKey  string    `json:"storage_key"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Response represents an eWR in API responses
type Response struct {
	ID               uuid.UUID            `json:"id"`
	Number           string               `json:"number"`
	OwnerID          uuid.UUID            `json:"owner_id"`
	CommodityID      uuid.UUID            `json:"commodity_id"`
	WarehouseID      uuid.UUID            `json:"warehouse_id"`
	QuantityMT       decimal.Decimal      `json:"quantity_mt"`
	Valuation        decimal.Decimal      `json:"valuation"`
	Status           receipt.Status       `json:"status"`
	VerificationURL  string               `json:"verification_url"`
	IssuedAt         time.Time            `json:"issued_at"`
	ExpiresAt        time.Time            `json:"expires_at"`
	Attachments      []AttachmentResponse `json:"attachments"`
}

// VerifyResponse is the public payload returned for a QR scan. It
// deliberately omits the owner and verification code.
type VerifyResponse struct {
	Number      string          `json:"number"`
	Status      receipt.Status  `json:"status"`
	QuantityMT  decimal.Decimal `json:"quantity_mt"`
	Valuation   decimal.Decimal `json:"valuation"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	IssuedAt    time.Time       `json:"issued_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Valid       bool            `json:"valid"`
}

// ToResponse maps a receipt aggregate to its API representation
func ToResponse(r *receipt.WarehouseReceipt) Response {
	attachments := make([]AttachmentResponse, 0, len(r.Attachments))
	for i := range r.Attachments {
		a := &r.Attachments[i]
		attachments = append(attachments, AttachmentResponse{
			ID:          a.ID,
			FileName:    a.FileName,
			StorageKey:  a.StorageKey,
			ContentType: a.ContentType,
			SizeBytes:   a.SizeBytes,
			UploadedBy:  a.UploadedBy,
			CreatedAt:   a.CreatedAt,
		})
	}
	return Response{
		ID:              r.ID,
		Number:          r.Number,
		OwnerID:         r.OwnerID,
		CommodityID:     r.CommodityID,
		WarehouseID:     r.WarehouseID,
		QuantityMT:      r.QuantityMT,
		Valuation:       r.Valuation,
		Status:          r.Status,
		VerificationURL: r.VerificationURL(),
		IssuedAt:        r.IssuedAt,
		ExpiresAt:       r.ExpiresAt,
		Attachments:     attachments,
	}
}

// ToVerifyResponse maps a receipt to its public verification payload
func ToVerifyResponse(r *receipt.WarehouseReceipt) VerifyResponse {
	return VerifyResponse{
		Number:      r.Number,
		Status:      r.Status,
		QuantityMT:  r.QuantityMT,
		Valuation:   r.Valuation,
		WarehouseID: r.WarehouseID,
		IssuedAt:    r.IssuedAt,
		ExpiresAt:   r.ExpiresAt,
		Valid:       r.IsActive(),
	}
}
