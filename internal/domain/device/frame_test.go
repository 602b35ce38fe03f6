//go:build unit
// +build unit

package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeHeatCommand(t *testing.T) {
	assert.Equal(t, "HEAT:3:1", EncodeHeatCommand(3, true))
	assert.Equal(t, "HEAT:0:0", EncodeHeatCommand(0, false))
}

func TestEncodePIDCommand(t *testing.T) {
	params := PIDParams{
		Kp:              2.5,
		Ki:              0.15,
		Kd:              0.05,
		TargetTemp:      50,
		ControlPeriodMs: 100,
		MaxDutyPct:      80,
	}
	assert.Equal(t, "PID:7:2.5,0.15,0.05,50,100,80", EncodePIDCommand(7, params))
}

func TestDecodeStatusFrame(t *testing.T) {
	line := []byte(`{"timestamp":"2026-08-25T10:30:00","channels":[{"id":0,"temperature":26.5,"pid_params":{"kp":1,"ki":0.1,"kd":0.05,"target_temp":50,"control_period":100,"max_duty":80},"heating":true}],"status":"running"}`)

	status, err := DecodeStatusFrame(line)
	require.NoError(t, err)

	assert.Equal(t, "running", status.State)
	require.Len(t, status.Channels, 1)
	assert.Equal(t, 0, status.Channels[0].ID)
	assert.Equal(t, 26.5, status.Channels[0].Temperature)
	assert.Equal(t, 50.0, status.Channels[0].PIDParams.TargetTemp)
	assert.True(t, status.Channels[0].Heating)
	assert.Equal(t, 2026, status.Timestamp.Year())
}

func TestDecodeStatusFrame_RFC3339Timestamp(t *testing.T) {
	line := []byte(`{"timestamp":"2026-08-25T10:30:00Z","channels":[]}`)

	status, err := DecodeStatusFrame(line)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, status.Timestamp.Location())
}

func TestDecodeStatusFrame_Malformed(t *testing.T) {
	_, err := DecodeStatusFrame([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeStatusFrame([]byte(`{"timestamp":"yesterday","channels":[]}`))
	assert.Error(t, err)
}

func TestEncodeStatusFrame_RoundTrip(t *testing.T) {
	status := &Status{
		Timestamp: time.Date(2026, 8, 25, 12, 0, 0, 0, time.Local),
		Channels: []ChannelState{
			{ID: 1, Temperature: 42.0, PIDParams: DefaultPIDParams(), Heating: false},
		},
		State: "running",
	}

	line, err := EncodeStatusFrame(status)
	require.NoError(t, err)

	decoded, err := DecodeStatusFrame(line)
	require.NoError(t, err)
	assert.Equal(t, status.Channels, decoded.Channels)
	assert.True(t, status.Timestamp.Equal(decoded.Timestamp))
}
