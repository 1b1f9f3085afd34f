package dto

import "github.com/shopspring/decimal"

// ─── Requests ─────────────────────────────────────────────────────────────────

// CartItemInput is one product line of a checkout request.
type CartItemInput struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type CreateSaleRequest struct {
	Items         []CartItemInput `json:"items" validate:"required,min=1,max=100,dive"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=cash card transfer"`
	Discount      decimal.Decimal `json:"discount" validate:"omitempty,gte=0"`
	TaxRate       decimal.Decimal `json:"tax_rate" validate:"omitempty,gte=0"`
	CustomerID    string          `json:"customer_id" validate:"omitempty,uuid4"`
	CustomerEmail string          `json:"customer_email" validate:"omitempty,email"`
	Notes         string          `json:"notes" validate:"omitempty,max=500"`
}

// ValidateCartRequest dry-runs a cart before checkout: same item lines as a
// sale, no side effects.
type ValidateCartRequest struct {
	Items []CartItemInput `json:"items" validate:"required,min=1,max=100,dive"`
}

type SaleFilter struct {
	DateFrom      string `form:"date_from"`
	DateTo        string `form:"date_to"`
	PaymentMethod string `form:"payment_method"`
	Page          int    `form:"page,default=1"`
	PageSize      int    `form:"page_size,default=20"`
}

// ─── Responses ────────────────────────────────────────────────────────────────

// CartItemValidation is the verdict for one cart line.
type CartItemValidation struct {
	ProductID    string                `json:"product_id"`
	ProductName  string                `json:"product_name,omitempty"`
	Quantity     int                   `json:"quantity"`
	Sellable     bool                  `json:"sellable"`
	Reason       string                `json:"reason,omitempty"`
	MissingItems []MaterialRequirement `json:"missing_items,omitempty"`
}

type CartValidationResponse struct {
	Valid bool                 `json:"valid"`
	Items []CartItemValidation `json:"items"`
}

type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	RefundedQty int             `json:"refunded_qty"`
}

type SaleResponse struct {
	ID             string             `json:"id"`
	ReceiptNumber  string             `json:"receipt_number"`
	CashierID      string             `json:"cashier_id,omitempty"`
	CustomerID     string             `json:"customer_id,omitempty"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	PaymentMethod  string             `json:"payment_method"`
	PaymentStatus  string             `json:"payment_status"`
	Notes          string             `json:"notes,omitempty"`
	Items          []SaleItemResponse `json:"items"`
	CreatedAt      string             `json:"created_at"`
}
