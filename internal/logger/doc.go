// Package logger wraps zap for the countdown binaries.
//
// A global sugared logger with a console encoder is created at start-up and
// its level can be changed at runtime. Loggers travel through context.Context
// (ToContext, FromContext, WithName, WithKV), and the package-level helpers
// (InfoKV, ErrorKV, ...) always log through the context logger.
package logger
