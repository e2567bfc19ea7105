package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,gt=0"`
}

type RegisterSaleRequest struct {
	Items  []SaleItemRequest `json:"items"  validate:"required,min=1,dive"`
	Method string            `json:"method" validate:"required,oneof=CASH TRANSFER CARD"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID        string             `json:"id"`
	SessionID string             `json:"session_id"`
	Employee  string             `json:"employee"`
	Method    string             `json:"method"`
	Total     decimal.Decimal    `json:"total"`
	Items     []SaleItemResponse `json:"items"`
	// DrawerOpened reports whether the physical (or simulated) drawer pulse
	// was fired — a false value never blocks the sale.
	DrawerOpened bool   `json:"drawer_opened"`
	CreatedAt    string `json:"created_at"`
}
