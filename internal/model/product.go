package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry sold over the counter. Stock is not decremented
// per sale — shifts reconcile sold units from opening/closing inventory counts,
// so CurrentCount is only a convenience mirror of the last closing snapshot.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"index;not null"`
	Category     string    `gorm:"not null;default:'general'"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CurrentCount int             `gorm:"not null;default:0"`
	MinCount     int             `gorm:"not null;default:5"`
	TrackStock   bool            `gorm:"not null;default:true"`
	Active       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
