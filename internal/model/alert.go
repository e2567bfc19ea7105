package model

import (
	"time"

	"github.com/google/uuid"
)

// Alert severities and sources.
const (
	AlertWarning  = "warning"
	AlertCritical = "critical"

	AlertSourceVariance = "variance"
	AlertSourceStock    = "stock"
	AlertSourceDrawer   = "drawer"
)

// Alert is a back-office notification shown until acknowledged.
type Alert struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Source       string    `gorm:"type:varchar(20);not null;index"`
	Severity     string    `gorm:"type:varchar(10);not null"`
	Message      string    `gorm:"not null"`
	Acknowledged bool      `gorm:"not null;default:false;index"`
	AckedByID    *uuid.UUID `gorm:"type:uuid"`
	AckedAt      *time.Time
	CreatedAt    time.Time `gorm:"index"`
}
