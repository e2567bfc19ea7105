package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Credit transaction types and payment methods. A DEBT extends store credit
// ("fiao"); a PAYMENT collects against it.
const (
	TxDebt    = "DEBT"
	TxPayment = "PAYMENT"

	MethodCash     = "CASH"
	MethodTransfer = "TRANSFER"
	MethodCard     = "CARD"
)

// CreditCustomer is a regular allowed to take product on credit up to a limit.
// CurrentUsed is the running balance — always updated in the same DB
// transaction that records the ledger entry.
type CreditCustomer struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Phone       *string
	CreditLimit decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CurrentUsed decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Available returns the remaining credit the customer may still take.
func (c *CreditCustomer) Available() decimal.Decimal {
	return c.CreditLimit.Sub(c.CurrentUsed)
}

// CreditTransaction is an immutable ledger entry. Entries are never modified
// or deleted — corrections are posted as inverse entries.
type CreditTransaction struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	Type       string    `gorm:"type:varchar(10);not null"` // DEBT | PAYMENT
	// Method is set only for PAYMENT entries: CASH | TRANSFER | CARD
	Method      *string         `gorm:"type:varchar(10)"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description *string
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null"`
	EmployeeName string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"index"`

	Customer *CreditCustomer `gorm:"foreignKey:CustomerID"`
}
