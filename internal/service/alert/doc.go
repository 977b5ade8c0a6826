// Package alert is the alert collaborator of the countdown engine.
//
// Dispatcher implements countdown.Alerts: it arms one time.AfterFunc per
// running timer, cancels it on pause, reset or removal, and turns the
// engine's completion events into exactly one delivery per run. Deliveries
// fan out to Sinks (structured log, journal file, external command) in the
// background; failures are logged and never retried.
package alert
