package actuator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/autobot/roboplane/internal/logger"
	"github.com/autobot/roboplane/internal/otelsetup"
	"github.com/autobot/roboplane/internal/transport"
)

// App bootstraps the actuator process: a command responder, a motion
// executor, and a heartbeat publisher, all run under one errgroup tied to
// the shutdown context.
type App struct {
	log *logger.Logger
	cfg ProcessConfig

	commandServer   transport.CommandServer
	heartbeatPub    transport.HeartbeatPublisher
	server          *Server
	shutdownTracing func(context.Context) error
}

func New() (*App, error) {
	cfg := LoadProcessConfig()

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	shutdownTracing, err := otelsetup.Init(context.Background(), "roboplane-actuator", nil)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	commandServer, err := transport.NewNATSCommandServer(cfg.NATSURL, cfg.CommandSubject, log)
	if err != nil {
		return nil, fmt.Errorf("init command server: %w", err)
	}

	heartbeatBus, err := transport.NewRedisHeartbeatBus(cfg.RedisAddr, cfg.HeartbeatChannel, log)
	if err != nil {
		return nil, fmt.Errorf("init heartbeat bus: %w", err)
	}

	pins := NewLoggingPinSink(log)
	executor := NewExecutor(cfg.Executor, pins, log)
	server := NewServer(executor, log)

	return &App{
		log:             log,
		cfg:             cfg,
		commandServer:   commandServer,
		heartbeatPub:    heartbeatBus,
		server:          server,
		shutdownTracing: shutdownTracing,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.commandServer.Serve(gctx, a.server.Handle)
	})

	g.Go(func() error {
		return PublishHeartbeats(gctx, a.heartbeatPub, a.cfg.HeartbeatPeriod, a.log)
	})

	err := g.Wait()

	_ = a.commandServer.Close()
	_ = a.heartbeatPub.Close()
	if a.shutdownTracing != nil {
		_ = a.shutdownTracing(context.Background())
	}
	a.log.Sync()

	return err
}
