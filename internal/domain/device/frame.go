package device

import (
	"encoding/json"
	"fmt"
	"time"
)

// Wire command verbs.
const (
	commandHeat = "HEAT"
	commandPID  = "PID"
)

// frameTimestampLayout is the timestamp format firmware writes into status
// frames. Frames with RFC3339 timestamps are accepted too.
const frameTimestampLayout = "2006-01-02T15:04:05"

// EncodeHeatCommand builds the heating on/off command for a channel.
//
//	HEAT:<channel>:<0|1>
func EncodeHeatCommand(channel int, heating bool) string {
	state := 0
	if heating {
		state = 1
	}
	return fmt.Sprintf("%s:%d:%d", commandHeat, channel, state)
}

// EncodePIDCommand builds the parameter update command for a channel.
//
//	PID:<channel>:<kp>,<ki>,<kd>,<target>,<period>,<duty>
func EncodePIDCommand(channel int, p PIDParams) string {
	return fmt.Sprintf("%s:%d:%g,%g,%g,%g,%d,%d",
		commandPID, channel, p.Kp, p.Ki, p.Kd, p.TargetTemp, p.ControlPeriodMs, p.MaxDutyPct)
}

// statusFrame is the JSON layout of a device status line. The timestamp is
// kept as a string because firmware emits it without a zone offset.
type statusFrame struct {
	Timestamp string         `json:"timestamp"`
	Channels  []ChannelState `json:"channels"`
	State     string         `json:"status,omitempty"`
}

// DecodeStatusFrame parses one newline-delimited status frame.
func DecodeStatusFrame(line []byte) (*Status, error) {
	var frame statusFrame
	if err := json.Unmarshal(line, &frame); err != nil {
		return nil, fmt.Errorf("malformed status frame: %w", err)
	}

	ts, err := parseFrameTimestamp(frame.Timestamp)
	if err != nil {
		return nil, err
	}

	return &Status{
		Timestamp: ts,
		Channels:  frame.Channels,
		State:     frame.State,
	}, nil
}

// EncodeStatusFrame renders a status snapshot as a single frame line without
// the trailing newline. Used by the simulator and by tests.
func EncodeStatusFrame(status *Status) ([]byte, error) {
	frame := statusFrame{
		Timestamp: status.Timestamp.Format(frameTimestampLayout),
		Channels:  status.Channels,
		State:     status.State,
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to encode status frame: %w", err)
	}
	return data, nil
}

func parseFrameTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	ts, err := time.ParseInLocation(frameTimestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed frame timestamp %q: %w", s, err)
	}
	return ts, nil
}
