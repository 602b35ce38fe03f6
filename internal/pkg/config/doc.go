// Package config provides functionality for loading and managing application
// configuration.
//
// Settings are read from a yaml file and the environment, validated, and made
// accessible to the rest of the application. Each settings struct carries its
// own Validate method so callers can fail fast on bad configuration.
package config
