package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	contractsv1 "agentlists/contracts/gen/events/v1"
	"agentlists/contexts/list-distribution/list-service/application/workers"
	"agentlists/internal/platform/config"
	"agentlists/internal/platform/httpserver"
	"agentlists/internal/platform/logging"
	"agentlists/internal/platform/messaging"
	"agentlists/internal/platform/metrics"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type publisher interface {
	Publish(ctx context.Context, topic string, event contractsv1.Envelope) error
	Close() error
}

type APIApp struct {
	server  *httpserver.Server
	modules *Modules
	// relay runs inside the API only on memory storage, where the outbox
	// is not visible to a separate worker process.
	relay        *workers.OutboxRelay
	bus          *messaging.InProcess
	pollInterval time.Duration
	logger       *slog.Logger
	closeLog     func() error
}

type WorkerApp struct {
	modules      *Modules
	relay        workers.OutboxRelay
	publisher    publisher
	pollInterval time.Duration
	logger       *slog.Logger
	closeLog     func() error
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	baseLogger, closeLog := logging.New(cfg.LogFile, logging.ParseLevel(cfg.LogLevel))
	logger := baseLogger.With("service", cfg.ServiceName, "process", "api")

	recorder := metrics.NewRecorder()
	var bus *messaging.InProcess
	var relayPublisher publisher
	if cfg.StorageDriver == config.StorageMemory {
		bus = messaging.NewInProcess(logger)
		relayPublisher = bus
	}

	modules, err := BuildModules(ctx, cfg, logger, recorder, relayPublisher)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	if err := modules.Migrate(ctx); err != nil {
		_ = modules.Close()
		_ = closeLog()
		return nil, err
	}
	if err := modules.SeedAdmin(ctx, cfg, logger); err != nil {
		_ = modules.Close()
		_ = closeLog()
		return nil, err
	}

	server := httpserver.New(modules.Lists, modules.Agents, modules.Auth, httpserver.Options{
		Addr:               normalizeAddr(cfg.HTTPPort),
		MaxUploadBytes:     cfg.UploadMaxBytes,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:            recorder,
		Ready:              modules.Ready,
		Logger:             logger,
	})

	app := &APIApp{
		server:       server,
		modules:      modules,
		bus:          bus,
		pollInterval: cfg.WorkerPollInterval,
		logger:       logger,
		closeLog:     closeLog,
	}
	if bus != nil {
		relay := modules.Lists.Relay
		app.relay = &relay
	}
	return app, nil
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	baseLogger, closeLog := logging.New(cfg.LogFile, logging.ParseLevel(cfg.LogLevel))
	logger := baseLogger.With("service", cfg.ServiceName, "process", "worker")

	if cfg.StorageDriver != config.StoragePostgres {
		_ = closeLog()
		return nil, errors.New("worker requires storage.driver=postgres; the memory outbox lives inside the api process")
	}

	pub, err := buildPublisher(ctx, cfg, logger)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	modules, err := BuildModules(ctx, cfg, logger, nil, pub)
	if err != nil {
		_ = pub.Close()
		_ = closeLog()
		return nil, err
	}
	return &WorkerApp{
		modules:      modules,
		relay:        modules.Lists.Relay,
		publisher:    pub,
		pollInterval: cfg.WorkerPollInterval,
		logger:       logger,
		closeLog:     closeLog,
	}, nil
}

func buildPublisher(ctx context.Context, cfg config.Config, logger *slog.Logger) (publisher, error) {
	switch cfg.EventsDriver {
	case config.EventsKafka:
		return messaging.NewKafka(cfg.KafkaBrokers, logger)
	case config.EventsSNS:
		return messaging.NewSNS(ctx, cfg.AWSRegion, cfg.SNSTopicARN, logger)
	case config.EventsInProcess:
		return messaging.NewInProcess(logger), nil
	default:
		return nil, fmt.Errorf("unknown events.driver %q", cfg.EventsDriver)
	}
}

// Run serves HTTP until ctx is done, then shuts the server down.
func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)

	if a.relay != nil {
		topic := a.relay.Topic
		if topic == "" {
			topic = workers.DefaultTopic
		}
		a.bus.Subscribe(ctx, topic, a.logEvent)
		go runRelay(ctx, *a.relay, a.pollInterval, a.logger)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (a *APIApp) logEvent(_ context.Context, event contractsv1.Envelope) error {
	a.logger.Info("list event delivered",
		"event", "bootstrap_list_event_delivered",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
	)
	return nil
}

func (a *APIApp) Close() error {
	var errs []error
	if a.modules != nil {
		errs = append(errs, a.modules.Close())
	}
	if a.bus != nil {
		errs = append(errs, a.bus.Close())
	}
	if a.closeLog != nil {
		errs = append(errs, a.closeLog())
	}
	return errors.Join(errs...)
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)
	runRelay(ctx, w.relay, w.pollInterval, w.logger)
	return nil
}

func (w *WorkerApp) Close() error {
	var errs []error
	if w.publisher != nil {
		errs = append(errs, w.publisher.Close())
	}
	if w.modules != nil {
		errs = append(errs, w.modules.Close())
	}
	if w.closeLog != nil {
		errs = append(errs, w.closeLog())
	}
	return errors.Join(errs...)
}

// runRelay drains the outbox on every tick. A failed pass is logged and
// retried on the next tick; only context cancellation stops the loop.
func runRelay(ctx context.Context, relay workers.OutboxRelay, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := relay.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("outbox relay pass failed",
				"event", "bootstrap_relay_pass_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
