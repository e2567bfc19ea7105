package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is one POS checkout. Sales feed the drawer (cash sales trigger the
// open pulse) and the back-office listings; shift revenue itself is derived
// from inventory deltas, not from summing sales.
type Sale struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID    uuid.UUID `gorm:"type:uuid;index;not null"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null"`
	EmployeeName string    `gorm:"not null"`
	Method       string    `gorm:"type:varchar(10);not null"` // CASH | TRANSFER | CARD
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time       `gorm:"index"`

	Items []SaleItem `gorm:"foreignKey:SaleID"`
}

// SaleItem is one line of a POS sale, priced at sale time.
type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Name      string    `gorm:"not null"`
	Quantity  int       `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
