// Package config defines the YAML settings shared by countdown-server and
// countdown-ctl and provides helpers to load, validate and save them.
//
// Validate fills in defaults (listen address, RPC timeout, tick interval,
// alert delivery timeout, log level) and rejects invalid presets with the same
// rules the gRPC boundary applies to new timers.
package config
