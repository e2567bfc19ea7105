package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payroll entry status values.
const (
	PayrollPending  = "PENDING"
	PayrollApproved = "APPROVED"
	PayrollRejected = "REJECTED"
)

// PayrollEntry is a pay request for an employee period. Entries start PENDING
// and an admin moves them to APPROVED or REJECTED; only APPROVED entries count
// against the accounting summary.
type PayrollEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;index;not null"`
	EmployeeName string    `gorm:"not null"`
	PeriodStart  time.Time `gorm:"not null"`
	PeriodEnd    time.Time `gorm:"not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status       string          `gorm:"type:varchar(10);not null;default:'PENDING';index"`
	Note         *string
	ResolvedByID *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt   *time.Time
	CreatedAt    time.Time
}
