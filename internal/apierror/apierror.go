// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation error", Fields: fields}
}

// InsufficientMaterials is returned when a BOM deduction cannot be covered by
// current raw-material stock. Shortages lists each deficient material so the
// POS can tell the cashier exactly what is missing.
type InsufficientMaterials struct {
	Detail    string             `json:"detail"`
	Shortages []MaterialShortage `json:"shortages"`
}

type MaterialShortage struct {
	RawMaterialID string `json:"raw_material_id"`
	Name          string `json:"name"`
	Required      string `json:"required"`
	Available     string `json:"available"`
	Shortage      string `json:"shortage"`
	Unit          string `json:"unit"`
}

func NewInsufficientMaterials(shortages []MaterialShortage) *InsufficientMaterials {
	return &InsufficientMaterials{Detail: "Insufficient raw materials", Shortages: shortages}
}

// Error lets services return InsufficientMaterials directly; handlers unwrap
// it with errors.As and serialize the full shortage list.
func (e *InsufficientMaterials) Error() string { return e.Detail }
