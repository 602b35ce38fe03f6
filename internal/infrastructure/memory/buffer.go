// Package memory keeps a bounded in-memory window of recent telemetry for
// analysis, so metric computation does not hit the database on every poll.
package memory

import (
	"sync"
	"time"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
)

// DefaultCapacity bounds the per-channel sample window.
const DefaultCapacity = 4096

// Buffer is a fixed-capacity per-channel ring of telemetry samples. Once a
// channel's ring is full, the oldest sample is dropped.
type Buffer struct {
	capacity int

	mu    sync.RWMutex
	rings map[int]*ring
}

type ring struct {
	samples []*device.TelemetrySample
	start   int
	count   int
}

// NewBuffer returns a buffer holding up to capacity samples per channel.
// A non-positive capacity uses DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		capacity: capacity,
		rings:    map[int]*ring{},
	}
}

// Append records samples into their channels' rings.
func (b *Buffer) Append(samples ...*device.TelemetrySample) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range samples {
		r, ok := b.rings[s.ChannelID]
		if !ok {
			r = &ring{samples: make([]*device.TelemetrySample, b.capacity)}
			b.rings[s.ChannelID] = r
		}
		if r.count < b.capacity {
			r.samples[(r.start+r.count)%b.capacity] = s
			r.count++
		} else {
			r.samples[r.start] = s
			r.start = (r.start + 1) % b.capacity
		}
	}
}

// Window returns the channel's samples no older than the trailing window,
// oldest first. A non-positive hours value returns the whole ring.
func (b *Buffer) Window(channel int, hours float64) []*device.TelemetrySample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	r, ok := b.rings[channel]
	if !ok {
		return nil
	}

	var cutoff time.Time
	if hours > 0 {
		cutoff = time.Now().Add(-time.Duration(hours * float64(time.Hour)))
	}

	out := make([]*device.TelemetrySample, 0, r.count)
	for i := 0; i < r.count; i++ {
		s := r.samples[(r.start+i)%b.capacity]
		if !cutoff.IsZero() && s.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Len returns the number of samples buffered for a channel.
func (b *Buffer) Len(channel int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if r, ok := b.rings[channel]; ok {
		return r.count
	}
	return 0
}

// Clear drops the buffered samples of one channel.
func (b *Buffer) Clear(channel int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.rings, channel)
}

// ClearAll drops everything.
func (b *Buffer) ClearAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rings = map[int]*ring{}
}
