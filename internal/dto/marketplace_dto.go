package dto

import "github.com/shopspring/decimal"

// ─── Requests ─────────────────────────────────────────────────────────────────

type CreateMarketplaceItemRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=150"`
	ItemType    string          `json:"item_type" validate:"required,oneof=product raw_material"`
	SKU         string          `json:"sku" validate:"omitempty,max=50"`
	Price       decimal.Decimal `json:"price" validate:"required,gt=0"`
	Stock       int             `json:"stock" validate:"omitempty,gte=0"`
	Description string          `json:"description" validate:"omitempty,max=1000"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url,max=500"`
}

type UpdateMarketplaceItemRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=150"`
	Price       decimal.Decimal `json:"price" validate:"required,gt=0"`
	Stock       int             `json:"stock" validate:"omitempty,gte=0"`
	Description string          `json:"description" validate:"omitempty,max=1000"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url,max=500"`
	Active      *bool           `json:"active"`
}

// CreateRestockOrderRequest places an order against the marketplace catalog.
type CreateRestockOrderRequest struct {
	MarketplaceItemID string `json:"marketplace_item_id" validate:"required,uuid4"`
	Quantity          int    `json:"quantity" validate:"required,gt=0"`
	DestinationType   string `json:"destination_type" validate:"required,oneof=product raw_material"`
	PaymentProofURL   string `json:"payment_proof_url" validate:"omitempty,url,max=500"`
	ShippingAddress   string `json:"shipping_address" validate:"required,min=10,max=500"`
	ShippingCity      string `json:"shipping_city" validate:"omitempty,max=100"`
	ShippingPostal    string `json:"shipping_postal" validate:"omitempty,max=20"`
	ShippingPhone     string `json:"shipping_phone" validate:"omitempty,max=30"`
	Notes             string `json:"notes" validate:"omitempty,max=500"`
}

type RejectRestockOrderRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type CreatePaymentMethodRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	AccountNumber string `json:"account_number" validate:"omitempty,max=50"`
	AccountName   string `json:"account_name" validate:"omitempty,max=100"`
	QRCodeURL     string `json:"qr_code_url" validate:"omitempty,url,max=500"`
}

type RestockOrderFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// ─── Responses ────────────────────────────────────────────────────────────────

type MarketplaceItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ItemType    string          `json:"item_type"`
	SKU         string          `json:"sku,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	Active      bool            `json:"active"`
}

type RestockOrderResponse struct {
	ID                string          `json:"id"`
	MarketplaceItemID string          `json:"marketplace_item_id"`
	ItemName          string          `json:"item_name"`
	Quantity          int             `json:"quantity"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	DestinationType   string          `json:"destination_type"`
	Status            string          `json:"status"`
	PaymentProofURL   string          `json:"payment_proof_url,omitempty"`
	ShippingAddress   string          `json:"shipping_address,omitempty"`
	AdminNotes        string          `json:"admin_notes,omitempty"`
	VerifiedBy        string          `json:"verified_by,omitempty"`
	VerifiedAt        string          `json:"verified_at,omitempty"`
	CreatedAt         string          `json:"created_at"`
}

type PaymentMethodResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	QRCodeURL     string `json:"qr_code_url,omitempty"`
	Active        bool   `json:"active"`
}
