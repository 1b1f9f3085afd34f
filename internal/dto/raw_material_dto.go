package dto

import "github.com/shopspring/decimal"

// ─── Requests ─────────────────────────────────────────────────────────────────

type CreateRawMaterialRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=150"`
	Description string          `json:"description" validate:"omitempty,max=1000"`
	Unit        string          `json:"unit" validate:"required,min=1,max=20"`
	StockQty    decimal.Decimal `json:"stock_qty" validate:"omitempty,gte=0"`
	StockAlert  decimal.Decimal `json:"stock_alert" validate:"omitempty,gte=0"`
	CostPrice   decimal.Decimal `json:"cost_price" validate:"omitempty,gte=0"`
}

type UpdateRawMaterialRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=150"`
	Description string          `json:"description" validate:"omitempty,max=1000"`
	Unit        string          `json:"unit" validate:"required,min=1,max=20"`
	StockAlert  decimal.Decimal `json:"stock_alert" validate:"omitempty,gte=0"`
	CostPrice   decimal.Decimal `json:"cost_price" validate:"omitempty,gte=0"`
	Active      *bool           `json:"active"`
}

// AdjustRawMaterialStockRequest moves stock up or down by a signed quantity.
type AdjustRawMaterialStockRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	Reason   string          `json:"reason" validate:"required,min=3,max=255"`
}

type RawMaterialFilter struct {
	Search   string `form:"search"`
	LowStock *bool  `form:"low_stock"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// ─── Responses ────────────────────────────────────────────────────────────────

type RawMaterialResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	SKU         string          `json:"sku"`
	Unit       string          `json:"unit"`
	StockQty   decimal.Decimal `json:"stock_qty"`
	StockAlert decimal.Decimal `json:"stock_alert"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	LowStock   bool            `json:"low_stock"`
	Active     bool            `json:"active"`
}

type StockAdjustmentResponse struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	QtyBefore  decimal.Decimal `json:"qty_before"`
	QtyAfter   decimal.Decimal `json:"qty_after"`
	QtyChanged decimal.Decimal `json:"qty_changed"`
	Reason     string          `json:"reason"`
	CreatedAt  string          `json:"created_at"`
}
