package dto

import "github.com/shopspring/decimal"

// ─── Requests ─────────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

type UpdateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

type CustomerFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// ─── Responses ────────────────────────────────────────────────────────────────

type CustomerResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	LoyaltyPoints int    `json:"loyalty_points"`
	CreatedAt     string `json:"created_at"`

	// Purchase history aggregates, populated on detail reads.
	TotalSpent decimal.Decimal `json:"total_spent"`
	SalesCount int64           `json:"sales_count"`
	LastSaleAt string          `json:"last_sale_at,omitempty"`
}
