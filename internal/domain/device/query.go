package device

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// TelemetryQuery filters the recorded history.
type TelemetryQuery struct {
	// ChannelID limits results to one channel when set.
	ChannelID *int `validate:"omitempty,gte=0"`

	// Hours limits results to the trailing time window.
	Hours float64 `validate:"gte=0"`

	Limit  int `validate:"gte=0"`
	Offset int `validate:"gte=0"`

	SortBy    string `validate:"omitempty,oneof=timestamp channel_id temperature"`
	SortOrder string `validate:"omitempty,oneof=asc desc"`
}

// NewTelemetryQuery returns a query for the last 24 hours, newest first.
func NewTelemetryQuery() *TelemetryQuery {
	return &TelemetryQuery{
		Hours:     24,
		SortBy:    "timestamp",
		SortOrder: "desc",
	}
}

// Validate checks the query parameters.
func (q *TelemetryQuery) Validate() error {
	validate := validator.New()

	if err := validate.Struct(q); err != nil {
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
