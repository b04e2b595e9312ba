package warehouse

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// Status represents the status of a warehouse
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Type represents the physical kind of warehouse
type Type string

const (
	TypeStandard    Type = "standard"
	TypeColdStorage Type = "cold_storage"
	TypeSilo        Type = "silo"
)

// Channel represents the receipt-issuance channel of a warehouse.
// Green-channel warehouses issue eWRs immediately after quality assessment;
// orange-channel warehouses require manual verification before issuance.
type Channel string

const (
	ChannelGreen  Channel = "green"
	ChannelOrange Channel = "orange"
)

// Warehouse is the aggregate root for storage facilities
type Warehouse struct {
	shared.BaseAggregateRoot
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Type         Type            `gorm:"type:varchar(20);not null;default:'standard'"`
	Channel      Channel         `gorm:"type:varchar(10);not null;default:'orange'"`
	Status       Status          `gorm:"type:varchar(20);not null;default:'active'"`
	Address      string          `gorm:"type:text"`
	City         string          `gorm:"type:varchar(100)"`
	State        string          `gorm:"type:varchar(100)"`
	Latitude     float64         `gorm:"not null;default:0"`
	Longitude    float64         `gorm:"not null;default:0"`
	CapacityMT   decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"` // total capacity in metric tons
	UsedMT       decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	FeeRatePerMT decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"` // storage fee per MT per month
	ContactName  string          `gorm:"type:varchar(100)"`
	Phone        string          `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// New creates a new warehouse with required fields
func New(code, name string, warehouseType Type, channel Channel, capacityMT decimal.Decimal) (*Warehouse, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateType(warehouseType); err != nil {
		return nil, err
	}
	if err := validateChannel(channel); err != nil {
		return nil, err
	}
	if capacityMT.IsNegative() {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Capacity cannot be negative")
	}

	w := &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Type:              warehouseType,
		Channel:           channel,
		Status:            StatusActive,
		CapacityMT:        capacityMT,
		UsedMT:            decimal.Zero,
		FeeRatePerMT:      decimal.Zero,
	}

	w.AddDomainEvent(NewCreatedEvent(w))

	return w, nil
}

// Update updates the warehouse's basic information
func (w *Warehouse) Update(name, address, city, state string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	w.Name = name
	w.Address = address
	w.City = city
	w.State = state
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// SetLocation sets the warehouse's map coordinates
func (w *Warehouse) SetLocation(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return shared.NewDomainError("INVALID_LOCATION", "Latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return shared.NewDomainError("INVALID_LOCATION", "Longitude must be between -180 and 180")
	}

	w.Latitude = lat
	w.Longitude = lng
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// SetContact sets the warehouse's contact information
func (w *Warehouse) SetContact(contactName, phone string) {
	w.ContactName = contactName
	w.Phone = phone
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// SetFeeRate sets the monthly storage fee rate per metric ton
func (w *Warehouse) SetFeeRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_FEE_RATE", "Fee rate cannot be negative")
	}

	w.FeeRatePerMT = rate
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// SetChannel changes the receipt-issuance channel
func (w *Warehouse) SetChannel(channel Channel) error {
	if err := validateChannel(channel); err != nil {
		return err
	}

	w.Channel = channel
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// Reserve reserves storage capacity for an incoming deposit
func (w *Warehouse) Reserve(quantityMT decimal.Decimal) error {
	if !w.IsActive() {
		return shared.NewDomainError("INVALID_STATE", "Warehouse is not active")
	}
	if quantityMT.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if w.UsedMT.Add(quantityMT).GreaterThan(w.CapacityMT) {
		return shared.ErrInsufficientCapacity
	}

	w.UsedMT = w.UsedMT.Add(quantityMT)
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// Release frees storage capacity after a withdrawal
func (w *Warehouse) Release(quantityMT decimal.Decimal) error {
	if quantityMT.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	w.UsedMT = w.UsedMT.Sub(quantityMT)
	if w.UsedMT.IsNegative() {
		w.UsedMT = decimal.Zero
	}
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// MonthlyFee computes the monthly storage fee for a stored quantity
func (w *Warehouse) MonthlyFee(quantityMT decimal.Decimal) decimal.Decimal {
	return w.FeeRatePerMT.Mul(quantityMT).Round(2)
}

// AvailableMT returns the remaining free capacity
func (w *Warehouse) AvailableMT() decimal.Decimal {
	return w.CapacityMT.Sub(w.UsedMT)
}

// Enable enables the warehouse
func (w *Warehouse) Enable() error {
	if w.Status == StatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Warehouse is already active")
	}

	w.Status = StatusActive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// Disable disables the warehouse. A warehouse still holding stock
// cannot be disabled.
func (w *Warehouse) Disable() error {
	if w.Status == StatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Warehouse is already inactive")
	}
	if w.UsedMT.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("HAS_STOCK", "Cannot disable a warehouse holding deposited stock")
	}

	w.Status = StatusInactive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	w.AddDomainEvent(NewDisabledEvent(w))

	return nil
}

// IsActive returns true if the warehouse is active
func (w *Warehouse) IsActive() bool {
	return w.Status == StatusActive
}

// IsGreenChannel returns true if eWRs are issued without manual verification
func (w *Warehouse) IsGreenChannel() bool {
	return w.Channel == ChannelGreen
}

func validateCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Warehouse code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot exceed 200 characters")
	}
	return nil
}

func validateType(t Type) error {
	switch t {
	case TypeStandard, TypeColdStorage, TypeSilo:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Invalid warehouse type")
	}
}

func validateChannel(c Channel) error {
	switch c {
	case ChannelGreen, ChannelOrange:
		return nil
	default:
		return shared.NewDomainError("INVALID_CHANNEL", "Invalid warehouse channel")
	}
}
