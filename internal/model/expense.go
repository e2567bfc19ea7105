package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a generic operating cost (rent, utilities, repairs).
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Description string          `gorm:"not null"`
	Category    string          `gorm:"not null;default:'general'"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RecordedBy  uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt   time.Time       `gorm:"index"`
}
