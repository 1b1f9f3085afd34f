package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RestockPending  = "pending"
	RestockVerified = "verified"
	RestockRejected = "rejected"

	DestinationProduct     = "product"
	DestinationRawMaterial = "raw_material"
)

// MarketplaceItem is a B2B catalog entry curated by superadmins and shared
// across all tenants. ItemType decides which inventory a verified restock
// order lands in.
type MarketplaceItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	SKU         *string         `gorm:"uniqueIndex"`
	ImageURL    *string
	ItemType    string `gorm:"type:varchar(20);not null;default:'product'"` // product | raw_material
	Active      bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (MarketplaceItem) TableName() string { return "marketplace_items" }

// RestockOrder is a tenant's purchase request against the marketplace.
// Verification by a superadmin fulfils it into Product or RawMaterial
// inventory according to DestinationType; rejection leaves inventory alone.
type RestockOrder struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID          uuid.UUID `gorm:"type:uuid;not null;index"`
	MarketplaceItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity          int       `gorm:"not null"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DestinationType   string          `gorm:"type:varchar(20);not null;default:'product'"`
	ShippingAddress   *string
	ShippingCity      *string
	ShippingPostal    *string
	ShippingPhone     *string
	PaymentProofURL   *string
	Status            string `gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes             *string
	AdminNotes        *string
	VerifiedBy        *uuid.UUID `gorm:"type:uuid"`
	VerifiedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	MarketplaceItem *MarketplaceItem `gorm:"foreignKey:MarketplaceItemID"`
	Tenant          *Tenant          `gorm:"foreignKey:TenantID"`
}

// PaymentMethod is a bank/e-wallet account tenants pay restock orders into.
type PaymentMethod struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"not null"`
	AccountNumber *string
	AccountName   *string
	QRCodeURL     *string
	Active        bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
}
