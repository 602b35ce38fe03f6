package models

import (
	"time"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
)

// ChannelLogModel is the GORM database model for telemetry samples
// (infrastructure concern)
type ChannelLogModel struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	ChannelID       int       `gorm:"not null;index"`
	Timestamp       time.Time `gorm:"not null;index"`
	Temperature     float64   `gorm:"not null"`
	TargetTemp      float64   `gorm:"not null"`
	Kp              float64   `gorm:"not null"`
	Ki              float64   `gorm:"not null"`
	Kd              float64   `gorm:"not null"`
	ControlPeriodMs int       `gorm:"not null"`
	MaxDutyPct      int       `gorm:"not null"`
	Heating         bool      `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (ChannelLogModel) TableName() string {
	return "channel_logs"
}

// ToDomain converts GORM model to domain entity
func (m *ChannelLogModel) ToDomain() *device.TelemetrySample {
	return &device.TelemetrySample{
		Timestamp:       m.Timestamp,
		ChannelID:       m.ChannelID,
		Temperature:     m.Temperature,
		TargetTemp:      m.TargetTemp,
		Kp:              m.Kp,
		Ki:              m.Ki,
		Kd:              m.Kd,
		ControlPeriodMs: m.ControlPeriodMs,
		MaxDutyPct:      m.MaxDutyPct,
		Heating:         m.Heating,
	}
}

// FromDomain converts domain entity to GORM model
func (m *ChannelLogModel) FromDomain(s *device.TelemetrySample) {
	m.ChannelID = s.ChannelID
	m.Timestamp = s.Timestamp
	m.Temperature = s.Temperature
	m.TargetTemp = s.TargetTemp
	m.Kp = s.Kp
	m.Ki = s.Ki
	m.Kd = s.Kd
	m.ControlPeriodMs = s.ControlPeriodMs
	m.MaxDutyPct = s.MaxDutyPct
	m.Heating = s.Heating
}
