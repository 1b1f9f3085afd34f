package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AdjustmentEdit           = "edit"
	AdjustmentManualAdd      = "manual_add"
	AdjustmentManualSubtract = "manual_subtract"
	AdjustmentSale           = "sale"
	AdjustmentRefund         = "refund"
	AdjustmentRestock        = "restock"
)

// StockAdjustment records every raw-material stock change with before/after
// values: manual corrections, BOM sale deductions, and refund restorations.
type StockAdjustment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID `gorm:"type:uuid;not null;index"`
	RawMaterialID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID        *uuid.UUID `gorm:"type:uuid"`
	// Type: "edit" | "manual_add" | "manual_subtract" | "sale" | "refund" | "restock"
	Type       string          `gorm:"type:varchar(20);not null"`
	QtyBefore  decimal.Decimal `gorm:"type:decimal(16,6);not null"`
	QtyAfter   decimal.Decimal `gorm:"type:decimal(16,6);not null"`
	QtyChanged decimal.Decimal `gorm:"type:decimal(16,6);not null"`
	Reason     *string
	Notes      *string
	CreatedAt  time.Time

	RawMaterial *RawMaterial `gorm:"foreignKey:RawMaterialID"`
}
