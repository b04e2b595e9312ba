package receipt

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a warehouse receipt
type Status string

const (
	StatusActive         Status = "active"
	StatusCollateralized Status = "collateralized"
	StatusInTransfer     Status = "in_transfer"
	StatusWithdrawn      Status = "withdrawn"
	StatusExpired        Status = "expired"
)

// ValidityMonths is how long an issued receipt stays valid
const ValidityMonths = 12

// Attachment is a file stored against a receipt (assay reports, photos).
// The key points into object storage.
type Attachment struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ReceiptID  uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName   string    `gorm:"type:varchar(255);not null"`
	StorageKey string    `gorm:"type:varchar(512);not null"`
	ContentType string   `gorm:"type:varchar(100)"`
	SizeBytes  int64     `gorm:"not null;default:0"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Attachment) TableName() string {
	return "receipt_attachments"
}

// WarehouseReceipt is the aggregate root for an electronic warehouse
// receipt (eWR) representing ownership of deposited commodity.
type WarehouseReceipt struct {
	shared.OwnedAggregateRoot
	Number           string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	CommodityID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityMT       decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Valuation        decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	VerificationCode string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status           Status          `gorm:"type:varchar(20);not null;default:'active';index"`
	IssuedAt         time.Time       `gorm:"not null"`
	ExpiresAt        time.Time       `gorm:"not null"`
	Attachments      []Attachment    `gorm:"foreignKey:ReceiptID;references:ID"`
}

// TableName returns the table name for GORM
func (WarehouseReceipt) TableName() string {
	return "warehouse_receipts"
}

// Issue creates a new active receipt for a deposited commodity
func Issue(ownerID, commodityID, warehouseID uuid.UUID, quantityMT, valuation decimal.Decimal) (*WarehouseReceipt, error) {
	if quantityMT.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Receipt quantity must be positive")
	}
	if valuation.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VALUATION", "Receipt valuation cannot be negative")
	}

	code, err := newVerificationCode()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	r := &WarehouseReceipt{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Number:             newReceiptNumber(now),
		CommodityID:        commodityID,
		WarehouseID:        warehouseID,
		QuantityMT:         quantityMT,
		Valuation:          valuation,
		VerificationCode:   code,
		Status:             StatusActive,
		IssuedAt:           now,
		ExpiresAt:          now.AddDate(0, ValidityMonths, 0),
	}

	r.AddDomainEvent(NewIssuedEvent(r))

	return r, nil
}

// VerificationURL returns the path a printed QR code encodes
func (r *WarehouseReceipt) VerificationURL() string {
	return "/receipts/verify/" + r.VerificationCode
}

// Revalue updates the receipt valuation from the market price feed
func (r *WarehouseReceipt) Revalue(valuation decimal.Decimal) error {
	if valuation.IsNegative() {
		return shared.NewDomainError("INVALID_VALUATION", "Receipt valuation cannot be negative")
	}

	r.Valuation = valuation
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Collateralize pledges the receipt against a loan. Only an active
// receipt can serve as collateral.
func (r *WarehouseReceipt) Collateralize() error {
	if r.Status == StatusCollateralized {
		return shared.ErrReceiptCollateralized
	}
	if r.Status != StatusActive {
		return shared.ErrReceiptNotActive
	}
	if r.IsExpired() {
		return shared.ErrReceiptNotActive
	}

	r.Status = StatusCollateralized
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewStatusChangedEvent(r))

	return nil
}

// ReleaseCollateral returns a collateralized receipt to active after
// full loan repayment
func (r *WarehouseReceipt) ReleaseCollateral() error {
	if r.Status != StatusCollateralized {
		return shared.NewDomainError("INVALID_STATE", "Receipt is not collateralized")
	}

	r.Status = StatusActive
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewStatusChangedEvent(r))

	return nil
}

// TransferTo moves ownership of the receipt to another user
func (r *WarehouseReceipt) TransferTo(newOwnerID uuid.UUID) error {
	if r.Status != StatusActive {
		return shared.ErrReceiptNotActive
	}
	if r.IsExpired() {
		return shared.ErrReceiptNotActive
	}
	if newOwnerID == uuid.Nil {
		return shared.NewDomainError("INVALID_TRANSFER", "Transfer target is required")
	}
	if newOwnerID == r.OwnerID {
		return shared.NewDomainError("INVALID_TRANSFER", "Cannot transfer a receipt to its current owner")
	}

	from := r.OwnerID
	r.OwnerID = newOwnerID
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewTransferredEvent(r, from, newOwnerID))

	return nil
}

// BeginWithdrawal moves an active receipt to in_transfer while its
// withdrawal process runs
func (r *WarehouseReceipt) BeginWithdrawal() error {
	if r.Status != StatusActive {
		return shared.ErrReceiptNotActive
	}

	r.Status = StatusInTransfer
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewStatusChangedEvent(r))

	return nil
}

// CompleteWithdrawal marks the receipt withdrawn once the withdrawal
// process delivers the goods
func (r *WarehouseReceipt) CompleteWithdrawal() error {
	if r.Status != StatusInTransfer {
		return shared.NewDomainError("INVALID_STATE", "Receipt has no withdrawal in progress")
	}

	r.Status = StatusWithdrawn
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewStatusChangedEvent(r))

	return nil
}

// MarkExpired expires a receipt past its validity window
func (r *WarehouseReceipt) MarkExpired() error {
	if r.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only an active receipt can expire")
	}
	if !r.IsExpired() {
		return shared.NewDomainError("INVALID_STATE", "Receipt has not reached its expiry date")
	}

	r.Status = StatusExpired
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewStatusChangedEvent(r))

	return nil
}

// AddAttachment records an uploaded file against the receipt
func (r *WarehouseReceipt) AddAttachment(fileName, storageKey, contentType string, sizeBytes int64, uploadedBy uuid.UUID) (*Attachment, error) {
	if fileName == "" || storageKey == "" {
		return nil, shared.NewDomainError("INVALID_ATTACHMENT", "File name and storage key are required")
	}

	a := Attachment{
		ID:          uuid.New(),
		ReceiptID:   r.ID,
		FileName:    fileName,
		StorageKey:  storageKey,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		UploadedBy:  uploadedBy,
		CreatedAt:   time.Now(),
	}
	r.Attachments = append(r.Attachments, a)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return &r.Attachments[len(r.Attachments)-1], nil
}

// IsExpired returns true once the validity window has passed
func (r *WarehouseReceipt) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// IsActive returns true if the receipt is active and within validity
func (r *WarehouseReceipt) IsActive() bool {
	return r.Status == StatusActive && !r.IsExpired()
}

// newReceiptNumber builds a number like eWR-20260830-4F2A9C
func newReceiptNumber(now time.Time) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("eWR-%s-%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}

// newVerificationCode returns 32 hex chars from crypto/rand
func newVerificationCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
