package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShiftSession status values. At most one session may be OPEN at any time —
// enforced in ShiftService, backed by a partial unique index (see infra).
const (
	ShiftOpen            = "OPEN"
	ShiftClosed          = "CLOSED"
	ShiftPendingApproval = "PENDING_APPROVAL"
)

// Audit actions appended to a session's trail. The trail is append-only;
// transitions never overwrite history.
const (
	AuditApprove = "APPROVE"
	AuditReopen  = "REOPEN"
)

// ShiftSession tracks one cash-register shift: who opened/closed it, the
// inventory counted at both ends, and the reconciliation report derived on
// close. Snapshots, report and audit trail are stored as JSONB blobs — they
// are only ever read back whole, never queried row-wise.
type ShiftSession struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OpenedByID   uuid.UUID `gorm:"type:uuid;not null"`
	OpenedByName string    `gorm:"not null"`
	ClosedByID   *uuid.UUID `gorm:"type:uuid"`
	ClosedByName *string
	Status       string `gorm:"type:varchar(20);not null;default:'OPEN';index"`

	InitialInventory InventorySnapshot `gorm:"type:jsonb;not null"`
	FinalInventory   InventorySnapshot `gorm:"type:jsonb"`
	Report           *SalesReport      `gorm:"type:jsonb"`
	AuditTrail       AuditTrail        `gorm:"type:jsonb;not null;default:'[]'"`

	CountedCash *decimal.Decimal `gorm:"type:decimal(14,2)"`
	ClosingNote *string

	OpenedAt time.Time
	ClosedAt *time.Time
}

// InventoryItem is one counted product inside a snapshot. Never persisted on
// its own.
type InventoryItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Count     int       `json:"count"`
}

// InventorySnapshot is the JSONB list of counted products.
type InventorySnapshot []InventoryItem

// Count returns the counted units for a product, or 0 when the product is
// absent from the snapshot.
func (s InventorySnapshot) Count(productID uuid.UUID) int {
	for _, it := range s {
		if it.ProductID == productID {
			return it.Count
		}
	}
	return 0
}

func (s InventorySnapshot) Value() (driver.Value, error) {
	if s == nil {
		s = InventorySnapshot{}
	}
	return json.Marshal(s)
}

func (s *InventorySnapshot) Scan(src interface{}) error {
	return scanJSON(src, s)
}

// ProductSold is the per-product breakdown inside a SalesReport.
type ProductSold struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Sold      int             `json:"sold"`
	Revenue   decimal.Decimal `json:"revenue"`
	Cost      decimal.Decimal `json:"cost"`
}

// SalesReport is the reconciliation result computed once at close and never
// mutated afterwards.
type SalesReport struct {
	Revenue         decimal.Decimal `json:"revenue"`
	Cost            decimal.Decimal `json:"cost"`
	Profit          decimal.Decimal `json:"profit"`
	CreditSales     decimal.Decimal `json:"credit_sales"`
	CashPayments    decimal.Decimal `json:"cash_payments"`
	NonCashPayments decimal.Decimal `json:"non_cash_payments"`
	CashToDeliver   decimal.Decimal `json:"cash_to_deliver"`
	Variance        decimal.Decimal `json:"variance"`
	Products        []ProductSold   `json:"products"`
}

func (r *SalesReport) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

func (r *SalesReport) Scan(src interface{}) error {
	return scanJSON(src, r)
}

// AuditEntry records one administrative transition on a session.
type AuditEntry struct {
	Timestamp time.Time `json:"timestamp"`
	ActorID   uuid.UUID `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Action    string    `json:"action"` // APPROVE | REOPEN
	Reason    string    `json:"reason"`
}

// AuditTrail is the append-only JSONB list of administrative transitions.
type AuditTrail []AuditEntry

func (t AuditTrail) Value() (driver.Value, error) {
	if t == nil {
		t = AuditTrail{}
	}
	return json.Marshal(t)
}

func (t *AuditTrail) Scan(src interface{}) error {
	return scanJSON(src, t)
}

// scanJSON handles both []byte and string representations pgx may hand back
// for jsonb columns.
func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported jsonb source type")
	}
}
