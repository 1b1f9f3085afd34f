package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockPrecision is the number of decimal places kept on raw-material stock.
// All stock mutations round half-up to this precision so that deduct/restore
// cycles return stock to its exact prior value.
const StockPrecision = 6

// RawMaterial is a production input consumed by BOM deductions and
// replenished by manual adjustments, refunds, and marketplace restocks.
// StockQty is decimal: materials are measured (kg, l), not counted.
type RawMaterial struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"index;not null"`
	Description *string
	SKU         string          `gorm:"uniqueIndex;not null"`
	Unit        string          `gorm:"not null;default:'kg'"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(16,6);not null;default:0"`
	StockQty    decimal.Decimal `gorm:"type:decimal(16,6);not null;default:0"`
	StockAlert  decimal.Decimal `gorm:"type:decimal(16,6);not null;default:10"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LowStock reports whether the material is at or below its alert threshold.
func (m *RawMaterial) LowStock() bool {
	return m.StockQty.LessThanOrEqual(m.StockAlert)
}
