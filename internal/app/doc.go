// Package app wires the domain contracts to their infrastructure
// implementations: the device control loop, telemetry recording and the
// analysis/optimization services.
package app
