package device

import (
	"context"
)

// Link is a bidirectional connection to the controller, either a real serial
// port or the built-in simulator.
type Link interface {
	// Open establishes the connection.
	Open() error

	// Close tears the connection down. Closing a closed link is an error.
	Close() error

	// IsOpen reports whether the link is usable.
	IsOpen() bool

	// ReadStatus reads the next status frame. When the device is silent the
	// last known status is returned; a link that never produced data returns
	// a snapshot with an empty channel list.
	ReadStatus() (*Status, error)

	// SendCommand writes one command line to the device.
	SendCommand(cmd string) error
}

// PortLister enumerates serial ports available on the host.
type PortLister interface {
	List() ([]PortInfo, error)
}

// ControlService manages the device link lifecycle and channel commands.
type ControlService interface {
	// Connect opens a link described by opts, replacing any existing one.
	Connect(ctx context.Context, opts ConnectOptions) (*ConnectionInfo, error)

	// Disconnect closes the current link.
	Disconnect(ctx context.Context) error

	// Status returns the most recent controller snapshot.
	Status(ctx context.Context) (*Status, error)

	// SetPID pushes new PID parameters to a channel.
	SetPID(ctx context.Context, channel int, params PIDParams) error

	// SetHeating switches heating on or off for a channel.
	SetHeating(ctx context.Context, channel int, heating bool) error

	// Connected reports whether a link is currently open.
	Connected() bool

	// NumChannels returns the channel count of the connected device, or 0.
	NumChannels() int
}

// TelemetryService exposes the recorded channel history.
type TelemetryService interface {
	// History lists recorded samples matching the query.
	History(ctx context.Context, query *TelemetryQuery) ([]*TelemetrySample, error)

	// ClearChannel deletes the recorded samples of one channel.
	ClearChannel(ctx context.Context, channel int) error

	// ClearAll deletes every recorded sample.
	ClearAll(ctx context.Context) error
}

// TelemetryRepository is the persistence contract for channel samples.
type TelemetryRepository interface {
	Record(ctx context.Context, samples []*TelemetrySample) error
	List(ctx context.Context, query *TelemetryQuery) ([]*TelemetrySample, error)
	DeleteByChannel(ctx context.Context, channel int) error
	DeleteAll(ctx context.Context) error
}
