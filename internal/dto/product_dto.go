package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name       string          `json:"name"        validate:"required,min=2"`
	Category   string          `json:"category"`
	CostPrice  decimal.Decimal `json:"cost_price"  validate:"min=0"`
	SalePrice  decimal.Decimal `json:"sale_price"  validate:"required,gt=0"`
	MinCount   int             `json:"min_count"   validate:"min=0"`
	TrackStock *bool           `json:"track_stock"`
}

type UpdateProductRequest struct {
	Name       *string          `json:"name"       validate:"omitempty,min=2"`
	Category   *string          `json:"category"`
	CostPrice  *decimal.Decimal `json:"cost_price" validate:"omitempty,min=0"`
	SalePrice  *decimal.Decimal `json:"sale_price" validate:"omitempty,gt=0"`
	MinCount   *int             `json:"min_count"  validate:"omitempty,min=0"`
	TrackStock *bool            `json:"track_stock"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	CurrentCount int             `json:"current_count"`
	MinCount     int             `json:"min_count"`
	TrackStock   bool            `json:"track_stock"`
	Active       bool            `json:"active"`
}
