package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOMHeader is one version of a product's recipe. Versions are monotonic per
// product and at most one header is active at any time; switching versions is
// a single transaction that deactivates the old header and activates the new
// one. Superseded headers are never deleted while sale items reference them.
type BOMHeader struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Version   int       `gorm:"not null;default:1"`
	Active    bool      `gorm:"not null;default:true;index"`
	Notes     *string
	CreatedAt time.Time

	Items   []BOMItem `gorm:"foreignKey:BOMHeaderID"`
	Product *Product  `gorm:"foreignKey:ProductID"`
}

func (BOMHeader) TableName() string { return "bom_headers" }

// BOMItem maps one raw material to the quantity needed per single unit of
// the finished product.
type BOMItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BOMHeaderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	RawMaterialID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(16,6);not null"`
	Unit          string
	Notes         *string

	RawMaterial *RawMaterial `gorm:"foreignKey:RawMaterialID"`
}

func (BOMItem) TableName() string { return "bom_items" }
