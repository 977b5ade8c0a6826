// Package ctl implements the countdown-ctl commands: it resolves timers by id
// prefix or name, calls the countdown server and renders timer tables,
// a live watch view and the local alert history.
package ctl
