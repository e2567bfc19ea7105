package dto

import "github.com/shopspring/decimal"

// PatchConfigRequest updates the single-row runtime configuration. All fields
// optional — only present fields are applied.
type PatchConfigRequest struct {
	BusinessName           *string          `json:"business_name"            validate:"omitempty,min=2"`
	VarianceAlertThreshold *decimal.Decimal `json:"variance_alert_threshold" validate:"omitempty,gt=0"`
	AlertEmail             *string          `json:"alert_email"              validate:"omitempty,email"`
	DrawerPort             *string          `json:"drawer_port"`
	DrawerBaudRate         *int             `json:"drawer_baud_rate"     validate:"omitempty,gt=0"`
	DrawerPulseMs          *int             `json:"drawer_pulse_ms"      validate:"omitempty,gt=0"`
	DrawerMaxOpenMs        *int             `json:"drawer_max_open_ms"   validate:"omitempty,gt=0"`
	DrawerSensorEnabled    *bool            `json:"drawer_sensor_enabled"`
	DrawerSensorPollMs     *int             `json:"drawer_sensor_poll_ms" validate:"omitempty,gt=0"`
}

type ConfigResponse struct {
	BusinessName           string          `json:"business_name"`
	VarianceAlertThreshold decimal.Decimal `json:"variance_alert_threshold"`
	AlertEmail             *string         `json:"alert_email"`
	DrawerPort             *string         `json:"drawer_port"`
	DrawerBaudRate         int             `json:"drawer_baud_rate"`
	DrawerPulseMs          int             `json:"drawer_pulse_ms"`
	DrawerMaxOpenMs        int             `json:"drawer_max_open_ms"`
	DrawerSensorEnabled    bool            `json:"drawer_sensor_enabled"`
	DrawerSensorPollMs     int             `json:"drawer_sensor_poll_ms"`
}
