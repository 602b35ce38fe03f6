// Package tuning holds the control-performance model: step response metrics,
// cooling curve analysis and LLM-backed parameter suggestions.
package tuning
