package dto

import "github.com/shopspring/decimal"

// ─── Requests ─────────────────────────────────────────────────────────────────

// BOMItemInput is one raw-material line of a recipe.
type BOMItemInput struct {
	RawMaterialID string          `json:"raw_material_id" validate:"required,uuid4"`
	Quantity      decimal.Decimal `json:"quantity" validate:"required,gt=0"`
	Notes         string          `json:"notes" validate:"omitempty,max=255"`
}

// SaveBOMRequest replaces a product's recipe. Saving always creates a new
// version and activates it; prior versions stay readable for history.
type SaveBOMRequest struct {
	Notes string         `json:"notes" validate:"omitempty,max=500"`
	Items []BOMItemInput `json:"items" validate:"required,min=1,max=100,dive"`
}

type CheckAvailabilityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// ─── Responses ────────────────────────────────────────────────────────────────

type BOMItemResponse struct {
	ID              string          `json:"id"`
	RawMaterialID   string          `json:"raw_material_id"`
	RawMaterialName string          `json:"raw_material_name"`
	Unit            string          `json:"unit"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	LineCost        decimal.Decimal `json:"line_cost"`
	Notes           string          `json:"notes,omitempty"`
}

type BOMResponse struct {
	ID        string            `json:"id"`
	ProductID string            `json:"product_id"`
	Version   int               `json:"version"`
	Active    bool              `json:"active"`
	Notes     string            `json:"notes,omitempty"`
	TotalCost decimal.Decimal   `json:"total_cost"`
	Items     []BOMItemResponse `json:"items"`
	CreatedAt string            `json:"created_at"`
}

// MaterialRequirement is one row of an availability report: how much of a
// material the requested quantity needs versus what is on hand.
type MaterialRequirement struct {
	RawMaterialID string          `json:"raw_material_id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	Required      decimal.Decimal `json:"required"`
	Available     decimal.Decimal `json:"available"`
	Shortage      decimal.Decimal `json:"shortage"`
	Sufficient    bool            `json:"sufficient"`
}

type AvailabilityResponse struct {
	ProductID    string                `json:"product_id"`
	Quantity     int                   `json:"quantity"`
	CanProduce   bool                  `json:"can_produce"`
	Requirements []MaterialRequirement `json:"requirements"`
	MissingItems []MaterialRequirement `json:"missing_items,omitempty"`
}

type BOMCostResponse struct {
	ProductID   string            `json:"product_id"`
	BOMVersion  int               `json:"bom_version"`
	TotalCost   decimal.Decimal   `json:"total_cost"`
	SalePrice   decimal.Decimal   `json:"sale_price"`
	GrossMargin decimal.Decimal   `json:"gross_margin"`
	Items       []BOMItemResponse `json:"items"`
}
