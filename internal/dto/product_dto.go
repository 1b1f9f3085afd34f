package dto

import "github.com/shopspring/decimal"

// ─── Requests ─────────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name                  string          `json:"name" validate:"required,min=2,max=150"`
	SKU                   string          `json:"sku" validate:"required,min=2,max=50"`
	Barcode               string          `json:"barcode" validate:"omitempty,max=50"`
	CategoryID            string          `json:"category_id" validate:"omitempty,uuid4"`
	Price                 decimal.Decimal `json:"price" validate:"required,gte=0"`
	CostPrice             decimal.Decimal `json:"cost_price" validate:"omitempty,gte=0"`
	StockQty              int             `json:"stock_qty" validate:"omitempty,gte=0"`
	StockAlert            int             `json:"stock_alert" validate:"omitempty,gte=0"`
	Unit                  string          `json:"unit" validate:"omitempty,max=20"`
	ImageURL              string          `json:"image_url" validate:"omitempty,url,max=500"`
	RequiresStockTracking *bool           `json:"requires_stock_tracking"`
	Description           string          `json:"description" validate:"omitempty,max=1000"`
}

type UpdateProductRequest struct {
	Name                  string          `json:"name" validate:"required,min=2,max=150"`
	Barcode               string          `json:"barcode" validate:"omitempty,max=50"`
	CategoryID            string          `json:"category_id" validate:"omitempty,uuid4"`
	Price                 decimal.Decimal `json:"price" validate:"required,gte=0"`
	CostPrice             decimal.Decimal `json:"cost_price" validate:"omitempty,gte=0"`
	StockAlert            int             `json:"stock_alert" validate:"omitempty,gte=0"`
	Unit                  string          `json:"unit" validate:"omitempty,max=20"`
	ImageURL              string          `json:"image_url" validate:"omitempty,url,max=500"`
	RequiresStockTracking *bool           `json:"requires_stock_tracking"`
	Description           string          `json:"description" validate:"omitempty,max=1000"`
	Active                *bool           `json:"active"`
}

type AdjustProductStockRequest struct {
	Quantity int    `json:"quantity" validate:"required"`
	Reason   string `json:"reason" validate:"required,min=3,max=255"`
}

// ProductFilter carries the list-endpoint query params.
type ProductFilter struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	HasBOM     *bool  `form:"has_bom"`
	Active     *bool  `form:"active"`
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"page_size,default=20"`
}

// ─── Responses ────────────────────────────────────────────────────────────────

type ProductResponse struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	SKU                   string          `json:"sku"`
	Barcode               string          `json:"barcode,omitempty"`
	CategoryID            string          `json:"category_id,omitempty"`
	CategoryName          string          `json:"category_name,omitempty"`
	Price                 decimal.Decimal `json:"price"`
	CostPrice             decimal.Decimal `json:"cost_price"`
	StockQty              int             `json:"stock_qty"`
	StockAlert            int             `json:"stock_alert"`
	Unit                  string          `json:"unit"`
	RequiresStockTracking bool            `json:"requires_stock_tracking"`
	HasBOM                bool            `json:"has_bom"`
	BOMCost               decimal.Decimal `json:"bom_cost"`
	Description           string          `json:"description,omitempty"`
	Active                bool            `json:"active"`
}

// PaginatedResponse wraps any list endpoint with paging metadata.
type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}
