package countdown

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/oshokin/countdown/internal/logger"
)

// ActorMetadataKey carries "username@hostname" of the caller for audit logs.
const ActorMetadataKey = "x-countdown-actor"

// unknownActor is logged when a caller does not identify itself.
const unknownActor = "<unknown>"

// actorFromContext returns the caller identity sent in the request metadata.
func actorFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return unknownActor
	}

	values := md.Get(ActorMetadataKey)
	if len(values) == 0 || values[0] == "" {
		return unknownActor
	}

	return values[0]
}

// UnaryActorInterceptor attaches the caller identity and method to the context logger.
func UnaryActorInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	ctx = logger.WithFields(ctx, "actor", actorFromContext(ctx), "method", info.FullMethod)

	return handler(ctx, req)
}

// StreamActorInterceptor attaches the caller identity and method to the stream's context logger.
func StreamActorInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx := logger.WithFields(ss.Context(), "actor", actorFromContext(ss.Context()), "method", info.FullMethod)

	return handler(srv, &loggedStream{ServerStream: ss, ctx: ctx})
}

// loggedStream overrides the context of a server stream.
type loggedStream struct {
	grpc.ServerStream

	// ctx carries the enriched logger.
	ctx context.Context
}

// Context returns the enriched context.
func (s *loggedStream) Context() context.Context {
	return s.ctx
}
