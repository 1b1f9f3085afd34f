package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable catalog item. Products with HasBOM=true are
// manufactured: their sales deduct raw materials through the active BOM
// instead of (or in addition to) their own finished-goods stock.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"`
	Name        string     `gorm:"index;not null"`
	Description *string
	SKU         string  `gorm:"uniqueIndex;not null"`
	Barcode     *string `gorm:"index"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(12,2)"`
	StockQty    int             `gorm:"not null;default:0"`
	StockAlert  int             `gorm:"not null;default:10"`
	Unit        string          `gorm:"not null;default:'pcs'"`
	ImageURL    *string

	// RequiresStockTracking=false means sales never touch StockQty
	// (e.g. services, made-to-order items without a recipe).
	RequiresStockTracking bool `gorm:"not null;default:true"`
	HasBOM                bool `gorm:"not null;default:false"`
	// BOMCost is the manufacturing cost derived from the active BOM,
	// refreshed on every BOM mutation. 6 decimal places, round half-up.
	BOMCost decimal.Decimal `gorm:"type:decimal(16,6);not null;default:0"`

	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}
