// Package integration runs the countdown server over a real TCP listener
// and drives it with the client packages.
package integration
