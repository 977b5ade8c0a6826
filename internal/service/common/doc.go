// Package common holds helpers shared by the countdown binaries.
//
// It provides a gRPC client wrapper for TimerService with per-call timeouts
// and caller identification, detection of the current system actor, and a
// single-instance guard for the server process.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
