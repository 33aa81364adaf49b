package aggregator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/autobot/roboplane/internal/logger"
	"github.com/autobot/roboplane/internal/otelsetup"
	"github.com/autobot/roboplane/internal/transport"
)

/*
App bootstraps the aggregator process, following cmd/inference/app's
New()/Run(ctx) shape: load config, build the logger, wire dependencies,
then run every background task under one errgroup tied to the shutdown
context.
*/
type App struct {
	log    *logger.Logger
	cfg    Config
	server *http.Server

	heartbeatSub    transport.HeartbeatSubscriber
	heartbeatMon    *HeartbeatMonitor
	commandClient   transport.CommandClient
	shutdownTracing func(context.Context) error
}

func New() (*App, error) {
	cfg := LoadConfig()

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	shutdownTracing, err := otelsetup.Init(context.Background(), "roboplane-aggregator", nil)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	commandClient, err := transport.NewNATSCommandClient(transport.NATSCommandConfig{
		URL:     cfg.NATSURL,
		Subject: cfg.CommandSubject,
		Timeout: cfg.RequestTimeout,
		Retries: cfg.RequestRetries,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("init command client: %w", err)
	}

	heartbeatBus, err := transport.NewRedisHeartbeatBus(cfg.RedisAddr, cfg.HeartbeatChannel, log)
	if err != nil {
		return nil, fmt.Errorf("init heartbeat bus: %w", err)
	}

	monitor := NewHeartbeatMonitor(cfg.HeartbeatStaleAfter)
	agg := New(commandClient, cfg.HistoryCapacity, log)
	httpServer := NewServer(agg, monitor, log)

	return &App{
		log: log,
		cfg: cfg,
		server: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: httpServer.Handler(),
		},
		heartbeatSub:    heartbeatBus,
		heartbeatMon:    monitor,
		commandClient:   commandClient,
		shutdownTracing: shutdownTracing,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.heartbeatSub.Subscribe(gctx, a.heartbeatMon.OnHeartbeat)
	})

	g.Go(func() error {
		errCh := make(chan error, 1)
		go func() { errCh <- a.server.ListenAndServe() }()
		select {
		case <-gctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout)
			defer cancel()
			_ = a.server.Shutdown(shutdownCtx)
			return nil
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	})

	err := g.Wait()

	_ = a.heartbeatSub.Close()
	_ = a.commandClient.Close()
	if a.shutdownTracing != nil {
		_ = a.shutdownTracing(context.Background())
	}
	a.log.Sync()

	return err
}
