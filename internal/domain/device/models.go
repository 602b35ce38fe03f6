package device

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Controller defaults and limits.
const (
	DefaultNumChannels = 16
	MaxNumChannels     = 64

	// AmbientTemp is the resting temperature a channel cools toward.
	AmbientTemp = 25.0

	MinControlPeriodMs = 10
	MaxControlPeriodMs = 1000
	MinDutyPct         = 0
	MaxDutyPct         = 100
)

// VirtualPort selects the built-in simulator instead of real hardware.
const VirtualPort = "VIRTUAL"

// CommonBaudRates lists the baud rates offered to clients.
var CommonBaudRates = []int{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200}

// PIDParams holds the control parameters of a single channel.
type PIDParams struct {
	Kp              float64 `json:"kp" validate:"gte=0"`
	Ki              float64 `json:"ki" validate:"gte=0"`
	Kd              float64 `json:"kd" validate:"gte=0"`
	TargetTemp      float64 `json:"target_temp" validate:"gte=-50,lte=500"`
	ControlPeriodMs int     `json:"control_period"`
	MaxDutyPct      int     `json:"max_duty"`
}

// Validate checks PIDParams ranges.
func (p *PIDParams) Validate() error {
	validate := validator.New()

	if err := validate.Struct(p); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// Clamp returns a copy with control period and duty limited to the ranges the
// firmware accepts.
func (p PIDParams) Clamp() PIDParams {
	if p.ControlPeriodMs < MinControlPeriodMs {
		p.ControlPeriodMs = MinControlPeriodMs
	}
	if p.ControlPeriodMs > MaxControlPeriodMs {
		p.ControlPeriodMs = MaxControlPeriodMs
	}
	if p.MaxDutyPct < MinDutyPct {
		p.MaxDutyPct = MinDutyPct
	}
	if p.MaxDutyPct > MaxDutyPct {
		p.MaxDutyPct = MaxDutyPct
	}
	return p
}

// DefaultPIDParams returns the parameters a channel boots with.
func DefaultPIDParams() PIDParams {
	return PIDParams{
		Kp:              1.0,
		Ki:              0.1,
		Kd:              0.05,
		TargetTemp:      AmbientTemp,
		ControlPeriodMs: 100,
		MaxDutyPct:      80,
	}
}

// ChannelState is the live state of one controller channel.
type ChannelState struct {
	ID          int       `json:"id"`
	Temperature float64   `json:"temperature"`
	PIDParams   PIDParams `json:"pid_params"`
	Heating     bool      `json:"heating"`
}

// Status is a full snapshot of the controller.
type Status struct {
	Timestamp time.Time      `json:"timestamp"`
	Channels  []ChannelState `json:"channels"`
	State     string         `json:"status,omitempty"`
}

// ConnectionInfo describes an established device link.
type ConnectionInfo struct {
	Port        string `json:"port"`
	BaudRate    int    `json:"baudrate"`
	NumChannels int    `json:"num_channels"`
	UseMock     bool   `json:"use_mock"`
}

// ConnectOptions are the parameters for opening a device link.
type ConnectOptions struct {
	Port        string
	BaudRate    int
	NumChannels int
	UseMock     bool
}

// Validate checks ConnectOptions.
func (o *ConnectOptions) Validate() error {
	if o.Port == "" {
		return fmt.Errorf("port is required")
	}
	if o.BaudRate <= 0 {
		return fmt.Errorf("baud rate must be positive")
	}
	if o.NumChannels < 1 || o.NumChannels > MaxNumChannels {
		return fmt.Errorf("num channels must be between 1 and %d", MaxNumChannels)
	}
	return nil
}

// PortInfo describes an available serial port.
type PortInfo struct {
	Port        string `json:"port"`
	Description string `json:"description"`
}

// TelemetrySample is one recorded observation of a channel.
type TelemetrySample struct {
	Timestamp       time.Time
	ChannelID       int
	Temperature     float64
	TargetTemp      float64
	Kp              float64
	Ki              float64
	Kd              float64
	ControlPeriodMs int
	MaxDutyPct      int
	Heating         bool
}

// SamplesFromStatus flattens a status snapshot into one sample per channel.
func SamplesFromStatus(status *Status) []*TelemetrySample {
	if status == nil {
		return nil
	}
	samples := make([]*TelemetrySample, 0, len(status.Channels))
	for _, ch := range status.Channels {
		samples = append(samples, &TelemetrySample{
			Timestamp:       status.Timestamp,
			ChannelID:       ch.ID,
			Temperature:     ch.Temperature,
			TargetTemp:      ch.PIDParams.TargetTemp,
			Kp:              ch.PIDParams.Kp,
			Ki:              ch.PIDParams.Ki,
			Kd:              ch.PIDParams.Kd,
			ControlPeriodMs: ch.PIDParams.ControlPeriodMs,
			MaxDutyPct:      ch.PIDParams.MaxDutyPct,
			Heating:         ch.Heating,
		})
	}
	return samples
}
