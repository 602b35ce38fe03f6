package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DeviceSettings holds the defaults for the serial link and the telemetry
// collector. Connect requests may override port, baud rate and channel count.
type DeviceSettings struct {
	Port         string        `mapstructure:"port" validate:"required"`
	BaudRate     int           `mapstructure:"baud_rate" validate:"required,gt=0"`
	NumChannels  int           `mapstructure:"num_channels" validate:"required,min=1,max=64"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// Validate checks that all fields in DeviceSettings are valid
func (s *DeviceSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DeviceSettings: %w", err)
	}

	if s.PollInterval != 0 && s.PollInterval < 100*time.Millisecond {
		return fmt.Errorf("poll interval must be at least 100ms")
	}

	return nil
}
