// Package logger provides the logging facility shared by the REST API,
// the CLI and the dashboard. A single instance is initialized from
// LoggerSettings and injected into every component that needs one.
package logger

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
}
