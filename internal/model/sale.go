package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a completed POS transaction.
type Sale struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ReceiptNumber string    `gorm:"uniqueIndex;not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"` // cash | card | transfer
	PaymentStatus string          `gorm:"type:varchar(20);not null;default:'completed'"`
	Notes         *string
	UserID        *uuid.UUID `gorm:"type:uuid"`
	CustomerID    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time

	Items   []SaleItem `gorm:"foreignKey:SaleID"`
	Refunds []Refund   `gorm:"foreignKey:SaleID"`
	User    *User      `gorm:"foreignKey:UserID"`
}

// RefundableAmount is the portion of the sale not yet covered by completed
// refunds.
func (s *Sale) RefundableAmount() decimal.Decimal {
	refunded := decimal.Zero
	for _, r := range s.Refunds {
		if r.Status == RefundCompleted {
			refunded = refunded.Add(r.Amount)
		}
	}
	return s.TotalAmount.Sub(refunded)
}

func (s *Sale) CanBeRefunded() bool {
	return s.PaymentStatus == "completed" && s.RefundableAmount().IsPositive()
}

// SaleItem is one product line of a sale. BOMHeaderID snapshots the BOM
// version that was active when the sale was registered, so refunds restore
// the materials actually consumed even after the recipe changes.
type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity  int       `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	BOMHeaderID *uuid.UUID `gorm:"type:uuid"`
	// RefundedQty is the running quantity already returned via completed
	// refunds; never exceeds Quantity.
	RefundedQty int `gorm:"not null;default:0"`

	Product   *Product   `gorm:"foreignKey:ProductID"`
	BOMHeader *BOMHeader `gorm:"foreignKey:BOMHeaderID"`
}

func (i *SaleItem) RefundableQty() int { return i.Quantity - i.RefundedQty }
