package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"google.golang.org/grpc"

	api "github.com/oshokin/countdown/internal/api/grpc/countdown"
	"github.com/oshokin/countdown/internal/config"
	domain "github.com/oshokin/countdown/internal/domain/countdown"
	"github.com/oshokin/countdown/internal/logger"
	"github.com/oshokin/countdown/internal/service/common"
	"github.com/oshokin/countdown/internal/version"
)

// Options controls the countdown-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// LogLevel overrides the configured log level when set.
	LogLevel string
	// AllowMultiple skips the single-instance check.
	AllowMultiple bool
	// Ready, when set, receives the bound listen address once the server accepts connections.
	Ready func(address string)
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the timer engine and its gRPC server and blocks until ctx is
// canceled or the server stops.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "countdown-server")

	settings, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if opts.LogLevel != "" {
		settings.LogLevel = opts.LogLevel
	}

	level, ok := logger.ParseLogLevel(settings.LogLevel)
	if !ok {
		return fmt.Errorf("%w: %q", config.ErrUnknownLogLevel, settings.LogLevel)
	}

	logger.SetLevel(level)

	if !opts.AllowMultiple {
		if err = common.EnsureSingleInstance(); err != nil {
			return err
		}
	}

	// Determine listen address: CLI argument overrides config port extraction.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	clock := domain.SystemClock{}

	svc, err := newService(ctx, settings, clock)
	if err != nil {
		return fmt.Errorf("initialise service: %w", err)
	}
	defer svc.Close()

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	// Serving ends with ctx or with a failing Serve, whichever comes first.
	serveCtx, stop := context.WithCancel(ctx)
	defer stop()

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(api.UnaryActorInterceptor),
		grpc.ChainStreamInterceptor(api.StreamActorInterceptor),
	)
	api.RegisterTimerServiceServer(grpcServer, api.NewServer(svc.registry,
		api.WithClock(clock),
		api.WithDone(serveCtx.Done())))

	logger.InfoKV(ctx, "Countdown server listening",
		"version", version.Short(),
		"listen_address", lis.Addr().String(),
		"tick_interval", settings.TickInterval)

	if opts.Ready != nil {
		opts.Ready(lis.Addr().String())
	}

	return serve(serveCtx, stop, grpcServer, lis, func(ctx context.Context) {
		svc.runTicker(ctx, settings.TickInterval)
	})
}

// serve runs grpcServer on lis and background alongside it until ctx is
// cancelled or Serve fails. It returns only after the server and background
// have stopped; stop cancels ctx.
func serve(
	ctx context.Context,
	stop context.CancelFunc,
	grpcServer *grpc.Server,
	lis net.Listener,
	background func(context.Context),
) error {
	var wg sync.WaitGroup

	wg.Go(func() {
		background(ctx)
	})

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()
		close(done)
	}()

	serveErr := grpcServer.Serve(lis)

	stop()
	<-done
	wg.Wait()

	if serveErr != nil && !errors.Is(serveErr, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", serveErr)
	}

	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise uses configAddr as is,
// so the default loopback address stays loopback.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	if _, _, err := net.SplitHostPort(configAddr); err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	return configAddr, nil
}
