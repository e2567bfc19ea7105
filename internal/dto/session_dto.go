package dto

import (
	"github.com/shopspring/decimal"

	"barpos/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type InventoryCountRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Count     int    `json:"count"      validate:"min=0"`
}

type OpenSessionRequest struct {
	// InitialInventory overrides the server-side baseline (previous session's
	// closing snapshot). Usually omitted.
	InitialInventory []InventoryCountRequest `json:"initial_inventory" validate:"omitempty,dive"`
}

type CloseSessionRequest struct {
	FinalInventory []InventoryCountRequest `json:"final_inventory" validate:"required,min=1,dive"`
	CountedCash    decimal.Decimal         `json:"counted_cash"    validate:"min=0"`
	Note           *string                 `json:"note"`
}

type ReopenSessionRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

type ApproveSessionRequest struct {
	Reason *string `json:"reason"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SessionResponse struct {
	ID               string                  `json:"id"`
	Status           string                  `json:"status"`
	OpenedBy         string                  `json:"opened_by"`
	ClosedBy         *string                 `json:"closed_by"`
	InitialInventory model.InventorySnapshot `json:"initial_inventory"`
	FinalInventory   model.InventorySnapshot `json:"final_inventory,omitempty"`
	Report           *model.SalesReport      `json:"report,omitempty"`
	CountedCash      *decimal.Decimal        `json:"counted_cash,omitempty"`
	ClosingNote      *string                 `json:"closing_note,omitempty"`
	AuditTrail       model.AuditTrail        `json:"audit_trail"`
	OpenedAt         string                  `json:"opened_at"`
	ClosedAt         *string                 `json:"closed_at"`
}
