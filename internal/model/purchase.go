package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is a stock replenishment bought from a supplier. Restocks do not
// touch shift arithmetic — the reconciliation clamps sold counts at zero when
// a restock raises the closing count above the opening one.
type Purchase struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  *uuid.UUID `gorm:"type:uuid;index"`
	Detail     string     `gorm:"not null"`
	Supplier   *string
	Quantity   int             `gorm:"not null;default:1"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RecordedBy uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt  time.Time       `gorm:"index"`
}
