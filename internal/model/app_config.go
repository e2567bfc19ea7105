package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppConfig is the single-row runtime configuration editable from the
// back-office (PATCH /v1/config). Drawer timings here are the server-side
// authority; the POS never caches them locally.
type AppConfig struct {
	ID           int    `gorm:"primaryKey"`
	BusinessName string `gorm:"not null;default:'Bar'"`

	// Alerting
	VarianceAlertThreshold decimal.Decimal `gorm:"type:decimal(12,2);not null;default:5000"`
	AlertEmail             *string

	// Drawer hardware
	DrawerPort          *string
	DrawerBaudRate      int  `gorm:"not null;default:9600"`
	DrawerPulseMs       int  `gorm:"not null;default:200"`
	DrawerMaxOpenMs     int  `gorm:"not null;default:10000"`
	DrawerSensorEnabled bool `gorm:"not null;default:false"`
	DrawerSensorPollMs  int  `gorm:"not null;default:1000"`

	UpdatedAt time.Time
}
