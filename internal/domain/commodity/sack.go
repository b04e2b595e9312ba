package commodity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradewiser/backend/internal/domain/shared"
)

// SackStatus represents the status of a single sack
type SackStatus string

const (
	SackStatusStored      SackStatus = "stored"
	SackStatusInTransit   SackStatus = "in_transit"
	SackStatusTransferred SackStatus = "transferred"
	SackStatusWithdrawn   SackStatus = "withdrawn"
)

// Sack is a physically separable sub-unit of a deposited commodity
type Sack struct {
	shared.OwnedAggregateRoot
	CommodityID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code         string          `gorm:"type:varchar(60);not null;uniqueIndex"`
	WeightMT     decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	QualityGrade string          `gorm:"type:varchar(10)"`
	Status       SackStatus      `gorm:"type:varchar(20);not null;default:'stored';index"`
}

// TableName returns the table name for GORM
func (Sack) TableName() string {
	return "commodity_sacks"
}

// NewSack creates one sack belonging to a commodity lot
func NewSack(c *Commodity, seq int, weightMT decimal.Decimal) (*Sack, error) {
	if weightMT.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Sack weight must be positive")
	}

	return &Sack{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(c.OwnerID),
		CommodityID:        c.ID,
		Code:               fmt.Sprintf("SACK-%s-%04d", shortID(c.ID), seq),
		WeightMT:           weightMT,
		QualityGrade:       c.QualityGrade,
		Status:             SackStatusStored,
	}, nil
}

// Split divides the commodity into count equal sacks. Only an active
// lot can be split, and the sacks inherit its grade and owner.
func (c *Commodity) Split(count int) ([]*Sack, error) {
	if c.Status != StatusActive {
		return nil, shared.NewDomainError("INVALID_STATE", "Only an active commodity can be split into sacks")
	}
	if count < 1 || count > 10000 {
		return nil, shared.NewDomainError("INVALID_SACK_COUNT", "Sack count must be between 1 and 10000")
	}

	per := c.QuantityMT.Div(decimal.NewFromInt(int64(count))).Round(3)
	sacks := make([]*Sack, 0, count)
	for i := 1; i <= count; i++ {
		s, err := NewSack(c, i, per)
		if err != nil {
			return nil, err
		}
		sacks = append(sacks, s)
	}

	return sacks, nil
}

// TransferTo moves ownership of the sack to another user
func (s *Sack) TransferTo(newOwnerID uuid.UUID) error {
	switch s.Status {
	case SackStatusWithdrawn:
		return shared.NewDomainError("INVALID_STATE", "Cannot transfer a withdrawn sack")
	case SackStatusInTransit:
		return shared.NewDomainError("INVALID_STATE", "Cannot transfer a sack in transit")
	}
	if newOwnerID == uuid.Nil {
		return shared.NewDomainError("INVALID_TRANSFER", "Transfer target is required")
	}
	if newOwnerID == s.OwnerID {
		return shared.NewDomainError("INVALID_TRANSFER", "Cannot transfer a sack to its current owner")
	}

	from := s.OwnerID
	s.OwnerID = newOwnerID
	s.Status = SackStatusTransferred
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewSackTransferredEvent(s, from, newOwnerID))

	return nil
}

// MarkInTransit flags the sack as being moved between warehouses
func (s *Sack) MarkInTransit() error {
	if s.Status == SackStatusWithdrawn {
		return shared.NewDomainError("INVALID_STATE", "Cannot move a withdrawn sack")
	}

	s.Status = SackStatusInTransit
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// MarkStored returns an in-transit sack to stored
func (s *Sack) MarkStored() error {
	if s.Status != SackStatusInTransit {
		return shared.NewDomainError("INVALID_STATE", "Only an in-transit sack can be marked stored")
	}

	s.Status = SackStatusStored
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// MarkWithdrawn marks the sack as withdrawn from storage
func (s *Sack) MarkWithdrawn() error {
	if s.Status == SackStatusWithdrawn {
		return shared.NewDomainError("INVALID_STATE", "Sack is already withdrawn")
	}

	s.Status = SackStatusWithdrawn
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

func shortID(id uuid.UUID) string {
	raw := id.String()
	return raw[:8]
}
