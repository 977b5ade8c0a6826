// Package countdown implements the gRPC transport for the timer registry.
//
// The TimerService schema is built at startup from descriptorpb, and
// messages travel as protobuf through grpc's default codec, using the
// well-known Duration, Timestamp and Empty types. Server adapts the registry
// to the service and is the validation boundary for user input: malformed
// requests never reach the engine.
package countdown
