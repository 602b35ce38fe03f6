// Package simulator provides an in-process stand-in for the temperature
// controller. Connecting to the virtual port uses this instead of hardware.
package simulator

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/pkg/strutil"
)

// Plant constants. Each channel is a first-order thermal system driven by a
// PID controller whose output is limited by the channel's max duty.
const (
	sampleTime     = 100 * time.Millisecond
	timeConstant   = 5.0
	maxPower       = 100.0
	noiseAmplitude = 0.1
)

// plantState is the per-channel controller and plant memory.
type plantState struct {
	integral        float64
	lastError       float64
	lastTime        time.Time
	lastControlTime time.Time
	disturbance     float64
}

// Link simulates the controller: each heated channel runs a PID loop against
// its target temperature on its control period, the plant responds as a
// first-order lag with gaussian measurement noise, and idle channels cool
// toward ambient. It speaks the same command grammar as the firmware and
// tolerates malformed commands the same way, by ignoring them.
type Link struct {
	mu          sync.Mutex
	open        bool
	channels    []device.ChannelState
	plants      []plantState
	last        *device.Status
	lastUpdate  time.Time
	numChannels int
	rng         *rand.Rand
	noise       float64
	now         func() time.Time
}

// NewLink returns a closed simulator with numChannels channels at ambient
// temperature and default gains.
func NewLink(numChannels int) *Link {
	l := &Link{
		numChannels: numChannels,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		noise:       noiseAmplitude,
		now:         time.Now,
	}
	l.resetLocked()
	return l
}

func (l *Link) resetLocked() {
	now := l.now()
	l.channels = make([]device.ChannelState, l.numChannels)
	l.plants = make([]plantState, l.numChannels)
	for i := range l.channels {
		l.channels[i] = device.ChannelState{
			ID:          i,
			Temperature: device.AmbientTemp,
			PIDParams:   device.DefaultPIDParams(),
		}
		l.plants[i] = plantState{lastTime: now, lastControlTime: now}
	}
	l.last = nil
	l.lastUpdate = time.Time{}
}

// Open marks the simulator connected.
func (l *Link) Open() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.open {
		return fmt.Errorf("simulator already open")
	}
	l.open = true
	return nil
}

// Close marks the simulator disconnected.
func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return fmt.Errorf("simulator not open")
	}
	l.open = false
	return nil
}

// IsOpen reports whether the simulator is connected.
func (l *Link) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}

// ReadStatus advances the plant one step and returns a fresh snapshot. Reads
// arriving faster than the device's sample time return the previous snapshot
// unchanged.
func (l *Link) ReadStatus() (*device.Status, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.open {
		return nil, fmt.Errorf("simulator not open")
	}

	now := l.now()
	if l.last != nil && now.Sub(l.lastUpdate) < sampleTime {
		return l.last, nil
	}
	l.lastUpdate = now

	for i := range l.channels {
		l.stepLocked(i, now)
	}

	snapshot := make([]device.ChannelState, len(l.channels))
	copy(snapshot, l.channels)
	l.last = &device.Status{
		Timestamp: now,
		Channels:  snapshot,
		State:     "running",
	}
	return l.last, nil
}

// stepLocked advances one channel to time now.
func (l *Link) stepLocked(i int, now time.Time) {
	ch := &l.channels[i]
	p := &l.plants[i]

	dt := now.Sub(p.lastTime).Seconds()
	if dt <= 0 {
		return
	}

	if !ch.Heating {
		ch.Temperature += -0.1 * (ch.Temperature - device.AmbientTemp) * (dt / timeConstant)
		p.lastTime = now
		return
	}

	err := ch.PIDParams.TargetTemp - ch.Temperature
	pTerm := ch.PIDParams.Kp * err
	p.integral += err * dt
	iTerm := ch.PIDParams.Ki * p.integral
	dTerm := ch.PIDParams.Kd * (err - p.lastError) / dt

	// The controller only acts once per control period; between actuations
	// the integral keeps accumulating, like the firmware's loop.
	if now.Sub(p.lastControlTime) < time.Duration(ch.PIDParams.ControlPeriodMs)*time.Millisecond {
		return
	}
	p.lastControlTime = now

	output := pTerm + iTerm + dTerm
	maxOutput := maxPower * float64(ch.PIDParams.MaxDutyPct) / 100
	if output < 0 {
		output = 0
	}
	if output > maxOutput {
		output = maxOutput
	}

	change := (output/maxPower*(ch.PIDParams.TargetTemp-ch.Temperature) + p.disturbance) * (dt / timeConstant)
	noise := l.rng.NormFloat64() * l.noise
	ch.Temperature += change + noise

	p.lastError = err
	p.lastTime = now
}

// SendCommand applies a HEAT or PID command. Malformed commands are ignored,
// matching firmware behavior.
func (l *Link) SendCommand(cmd string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.open {
		return fmt.Errorf("simulator not open")
	}

	parts := strings.Split(strings.TrimSpace(cmd), ":")
	if len(parts) < 3 {
		return nil
	}

	channel, err := strconv.Atoi(parts[1])
	if err != nil || channel < 0 || channel >= len(l.channels) {
		return nil
	}
	ch := &l.channels[channel]

	switch parts[0] {
	case "HEAT":
		state, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil
		}
		ch.Heating = state != 0
	case "PID":
		fields := strings.Split(parts[2], ",")
		if len(fields) != 6 {
			return nil
		}
		params := device.PIDParams{
			Kp:              strutil.ConvertToFloat64(fields[0]),
			Ki:              strutil.ConvertToFloat64(fields[1]),
			Kd:              strutil.ConvertToFloat64(fields[2]),
			TargetTemp:      strutil.ConvertToFloat64(fields[3]),
			ControlPeriodMs: strutil.ConvertToInt(fields[4]),
			MaxDutyPct:      strutil.ConvertToInt(fields[5]),
		}
		ch.PIDParams = params.Clamp()
	}
	return nil
}

// AddDisturbance applies a persistent random offset of the given magnitude to
// one channel's plant, feeding into every subsequent heated step.
func (l *Link) AddDisturbance(channel int, magnitude float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if channel < 0 || channel >= len(l.plants) {
		return
	}
	l.plants[channel].disturbance = magnitude * l.rng.NormFloat64()
}

// Reset puts every channel back to ambient with default gains and clears the
// controller state.
func (l *Link) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resetLocked()
}
