package v1

import (
	"fmt"
	"time"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/domain/tuning"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string `json:"message"`
}

// ConnectRequest is the body of POST /device/connect
type ConnectRequest struct {
	Port        string `json:"port"`
	BaudRate    int    `json:"baudrate"`
	NumChannels int    `json:"num_channels"`
	UseMock     bool   `json:"use_mock"`
}

// ToOptions converts the request into connect options with defaults applied.
func (r *ConnectRequest) ToOptions() device.ConnectOptions {
	opts := device.ConnectOptions{
		Port:        r.Port,
		BaudRate:    r.BaudRate,
		NumChannels: r.NumChannels,
		UseMock:     r.UseMock,
	}
	if opts.BaudRate == 0 {
		opts.BaudRate = 115200
	}
	if opts.NumChannels == 0 {
		opts.NumChannels = device.DefaultNumChannels
	}
	return opts
}

// SetPIDRequest is the body of POST /device/channels/:id/pid
type SetPIDRequest struct {
	Kp              float64 `json:"kp"`
	Ki              float64 `json:"ki"`
	Kd              float64 `json:"kd"`
	TargetTemp      float64 `json:"target_temp"`
	ControlPeriodMs int     `json:"control_period"`
	MaxDutyPct      int     `json:"max_duty"`
}

// ToParams converts the request into PID parameters with defaults applied.
func (r *SetPIDRequest) ToParams() device.PIDParams {
	params := device.PIDParams{
		Kp:              r.Kp,
		Ki:              r.Ki,
		Kd:              r.Kd,
		TargetTemp:      r.TargetTemp,
		ControlPeriodMs: r.ControlPeriodMs,
		MaxDutyPct:      r.MaxDutyPct,
	}
	if params.ControlPeriodMs == 0 {
		params.ControlPeriodMs = 100
	}
	if params.MaxDutyPct == 0 {
		params.MaxDutyPct = 80
	}
	return params
}

// ControlRequest is the body of POST /device/channels/:id/control
type ControlRequest struct {
	Heating *bool `json:"heating"`
}

// Validate checks that the heating flag is present.
func (r *ControlRequest) Validate() error {
	if r.Heating == nil {
		return fmt.Errorf("heating is required")
	}
	return nil
}

// PortInfoResponse describes one selectable serial port
type PortInfoResponse struct {
	Port        string `json:"port"`
	Description string `json:"description"`
}

// PortsResponse is the body of GET /device/ports
type PortsResponse struct {
	Ports     []PortInfoResponse `json:"ports"`
	BaudRates []int              `json:"baudrates"`
}

// ConnectionResponse describes an established device link
type ConnectionResponse struct {
	Port        string `json:"port"`
	BaudRate    int    `json:"baudrate"`
	NumChannels int    `json:"num_channels"`
	UseMock     bool   `json:"use_mock"`
}

// TelemetrySampleResponse is one recorded history row
type TelemetrySampleResponse struct {
	Timestamp   time.Time `json:"timestamp"`
	ChannelID   int       `json:"channel_id"`
	Temperature float64   `json:"temperature"`
	TargetTemp  float64   `json:"target_temp"`
	Kp          float64   `json:"kp"`
	Ki          float64   `json:"ki"`
	Kd          float64   `json:"kd"`
	Heating     bool      `json:"heating"`
}

func telemetryResponse(samples []*device.TelemetrySample) []TelemetrySampleResponse {
	out := make([]TelemetrySampleResponse, len(samples))
	for i, s := range samples {
		out[i] = TelemetrySampleResponse{
			Timestamp:   s.Timestamp,
			ChannelID:   s.ChannelID,
			Temperature: s.Temperature,
			TargetTemp:  s.TargetTemp,
			Kp:          s.Kp,
			Ki:          s.Ki,
			Kd:          s.Kd,
			Heating:     s.Heating,
		}
	}
	return out
}

// AnalysisResponse is the body of the optimization endpoints. Cooling is only
// present when the window contains a free-cooling segment.
type AnalysisResponse struct {
	Channel    int                     `json:"channel"`
	Metrics    *tuning.ResponseMetrics `json:"metrics"`
	Assessment *tuning.Assessment      `json:"assessment,omitempty"`
	Cooling    *tuning.CoolingAnalysis `json:"cooling,omitempty"`
	Suggestion *tuning.Suggestion      `json:"suggestion"`
}

// ProviderResponse summarizes one configured LLM backend. API keys are never
// echoed back, only whether one is set.
type ProviderResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	HasAPIKey   bool     `json:"has_api_key"`
	BaseURL     string   `json:"base_url,omitempty"`
	Models      []string `json:"models"`
}

// UpdateProviderRequest is the body of PUT /providers
type UpdateProviderRequest struct {
	Name    string `json:"name"`
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

// Validate checks the update request.
func (r *UpdateProviderRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// SelectionRequest is the body of PUT /providers/current
type SelectionRequest struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Validate checks the selection request.
func (r *SelectionRequest) Validate() error {
	if r.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	return nil
}

// SelectionResponse is the body of GET /providers/current
type SelectionResponse struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Connected bool   `json:"connected"`
}
