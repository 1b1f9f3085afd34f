package dto

import "github.com/shopspring/decimal"

// ─── Requests ─────────────────────────────────────────────────────────────────

// RefundItemInput identifies a sale item and how many units to return.
type RefundItemInput struct {
	SaleItemID string `json:"sale_item_id" validate:"required,uuid4"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

type CreateRefundRequest struct {
	SaleID string            `json:"sale_id" validate:"required,uuid4"`
	Reason string            `json:"reason" validate:"required,min=3,max=500"`
	Items  []RefundItemInput `json:"items" validate:"required,min=1,dive"`
}

type RefundFilter struct {
	Status   string `form:"status"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// ─── Responses ────────────────────────────────────────────────────────────────

type RefundItemResponse struct {
	ID          string          `json:"id"`
	SaleItemID  string          `json:"sale_item_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type RefundResponse struct {
	ID            string               `json:"id"`
	Number        string               `json:"number"`
	SaleID        string               `json:"sale_id"`
	ReceiptNumber string               `json:"receipt_number,omitempty"`
	Status        string               `json:"status"`
	Reason        string               `json:"reason,omitempty"`
	Amount        decimal.Decimal      `json:"amount"`
	Items         []RefundItemResponse `json:"items"`
	ProcessedBy   string               `json:"processed_by,omitempty"`
	CreatedAt     string               `json:"created_at"`
}
