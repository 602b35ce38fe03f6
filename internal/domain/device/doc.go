// Package device contains the domain model for the multi-channel PID
// temperature controller: channel state, PID parameters, the newline-delimited
// wire protocol spoken over the serial link, and the contracts implemented by
// the infrastructure and application layers.
package device
