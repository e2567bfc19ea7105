package model

import (
	"time"

	"github.com/google/uuid"
)

// DrawerLog persists one drawer event for auditing. Mode records whether the
// event came from real hardware or the software simulation.
type DrawerLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Event     string    `gorm:"type:varchar(20);not null"` // CONNECTED | OPENED | CLOSED | ERROR
	Port      string    `gorm:"not null"`
	Mode      string    `gorm:"type:varchar(10);not null"` // hardware | simulated
	Detail    *string
	CreatedAt time.Time `gorm:"index"`
}
