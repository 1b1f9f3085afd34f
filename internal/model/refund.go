package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RefundPending   = "pending"
	RefundCompleted = "completed"
	RefundCancelled = "cancelled"
)

// Refund is a full or partial reversal of a sale. Created as pending;
// processing restores inventory and marks it completed.
type Refund struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SaleID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Number      string    `gorm:"uniqueIndex;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Reason      *string
	Notes       *string
	Status      string `gorm:"type:varchar(20);not null;default:'pending'"`
	ProcessedBy *uuid.UUID `gorm:"type:uuid"`
	ProcessedAt *time.Time
	CreatedAt   time.Time

	Items []RefundItem `gorm:"foreignKey:RefundID"`
	Sale  *Sale        `gorm:"foreignKey:SaleID"`
}

type RefundItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RefundID   uuid.UUID `gorm:"type:uuid;not null;index"`
	SaleItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity   int       `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(14,2);not null"`

	SaleItem *SaleItem `gorm:"foreignKey:SaleItemID"`
}
