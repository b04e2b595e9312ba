package commodity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a deposited commodity
type Status string

const (
	StatusProcessing  Status = "processing"
	StatusActive      Status = "active"
	StatusWithdrawn   Status = "withdrawn"
	StatusTransferred Status = "transferred"
)

// Category represents the commodity category used for market pricing
type Category string

const (
	CategoryCereal   Category = "cereal"
	CategoryPulse    Category = "pulse"
	CategoryOilseed  Category = "oilseed"
	CategorySpice    Category = "spice"
	CategoryCashCrop Category = "cash_crop"
)

// Categories lists all known commodity categories
func Categories() []Category {
	return []Category{CategoryCereal, CategoryPulse, CategoryOilseed, CategorySpice, CategoryCashCrop}
}

// Commodity is the aggregate root for a deposited lot of produce
type Commodity struct {
	shared.OwnedAggregateRoot
	WarehouseID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Category     Category        `gorm:"type:varchar(20);not null;index"`
	QuantityMT   decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	QualityGrade string          `gorm:"type:varchar(10)"`
	Quality      string          `gorm:"type:jsonb"` // JSON storage for measured quality parameters (moisture, foreign matter, broken %)
	PricePerMT   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Valuation    decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0"`
	Status       Status          `gorm:"type:varchar(20);not null;default:'processing';index"`
}

// TableName returns the table name for GORM
func (Commodity) TableName() string {
	return "commodities"
}

// New creates a commodity at deposit intake. It starts in processing
// until the deposit pipeline completes.
func New(ownerID, warehouseID uuid.UUID, name string, category Category, quantityMT decimal.Decimal) (*Commodity, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Commodity name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Commodity name cannot exceed 200 characters")
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if quantityMT.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	c := &Commodity{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		WarehouseID:        warehouseID,
		Name:               name,
		Category:           category,
		QuantityMT:         quantityMT,
		PricePerMT:         decimal.Zero,
		Valuation:          decimal.Zero,
		Status:             StatusProcessing,
	}

	c.AddDomainEvent(NewDepositedEvent(c))

	return c, nil
}

// RecordQuality records the assessed grade and measured parameters
func (c *Commodity) RecordQuality(grade string, params string) error {
	if grade == "" {
		return shared.NewDomainError("INVALID_GRADE", "Quality grade cannot be empty")
	}
	if params == "" {
		params = "{}"
	}
	trimmed := strings.TrimSpace(params)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return shared.NewDomainError("INVALID_QUALITY", "Quality parameters must be a JSON object")
	}

	c.QualityGrade = grade
	c.Quality = trimmed
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Revalue updates the market price and derived valuation
func (c *Commodity) Revalue(pricePerMT decimal.Decimal) error {
	if pricePerMT.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	oldValuation := c.Valuation
	c.PricePerMT = pricePerMT
	c.Valuation = pricePerMT.Mul(c.QuantityMT).Round(2)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	if !c.Valuation.Equal(oldValuation) {
		c.AddDomainEvent(NewRevaluedEvent(c))
	}

	return nil
}

// Activate marks the commodity active once its deposit pipeline completes
func (c *Commodity) Activate() error {
	if c.Status != StatusProcessing {
		return shared.NewDomainError("INVALID_STATE", "Only a processing commodity can be activated")
	}

	c.Status = StatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// MarkWithdrawn marks the commodity as withdrawn from the warehouse
func (c *Commodity) MarkWithdrawn() error {
	if c.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only an active commodity can be withdrawn")
	}

	c.Status = StatusWithdrawn
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// TransferTo moves ownership of the whole lot to another user
func (c *Commodity) TransferTo(newOwnerID uuid.UUID) error {
	if c.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only an active commodity can be transferred")
	}
	if newOwnerID == c.OwnerID {
		return shared.NewDomainError("INVALID_TRANSFER", "Cannot transfer a commodity to its current owner")
	}
	if newOwnerID == uuid.Nil {
		return shared.NewDomainError("INVALID_TRANSFER", "Transfer target is required")
	}

	from := c.OwnerID
	c.OwnerID = newOwnerID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewTransferredEvent(c, from, newOwnerID))

	return nil
}

// IsActive returns true if the commodity is active in storage
func (c *Commodity) IsActive() bool {
	return c.Status == StatusActive
}

func validateCategory(category Category) error {
	switch category {
	case CategoryCereal, CategoryPulse, CategoryOilseed, CategorySpice, CategoryCashCrop:
		return nil
	default:
		return shared.NewDomainError("INVALID_CATEGORY", "Invalid commodity category")
	}
}
