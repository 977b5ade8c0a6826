// Package version holds the build metadata of the countdown binaries.
//
// Version, Commit and BuildTime are set with -ldflags "-X ..." and keep
// their defaults in local builds.
package version
