package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"chama/internal/amqp"
	"chama/internal/cli"
	"chama/internal/config"
	"chama/internal/core"
	apphttp "chama/internal/http"
	applog "chama/internal/log"
	"chama/internal/members"
	"chama/internal/metrics"
	"chama/internal/notify"
	"chama/internal/reminders"
	"chama/internal/settings"
	"chama/internal/sheets"
	gsheet "chama/internal/sheets/google"
	mem "chama/internal/sheets/memory"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		applog.New(applog.DefaultConfig()).Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *applog.Logger) error {
	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	seed := members.DefaultSeed()
	if cfg.SeedFile != "" {
		loaded, err := members.LoadSeed(cfg.SeedFile)
		if err != nil {
			return err
		}
		seed = loaded
		logger.Info("Loaded member seed", "file", cfg.SeedFile, "members", len(seed))
	}

	memberStore, err := members.New(seed, members.WithLocation(cfg.Location()))
	if err != nil {
		return err
	}
	settingsStore, err := settings.New(cfg.Settings())
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg, reg)

	recorder := notify.NewRecorder(20)
	sinks := []notify.Named{
		{Name: "log", Sink: notify.NewLogSink(logger.WithComponent(applog.ComponentNotify))},
		{Name: "activity", Sink: recorder},
	}
	var closers []io.Closer

	switch cfg.NotifyBackend {
	case "amqp":
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			return err
		}
		closers = append(closers, client)
		sinks = append(sinks, notify.Named{Name: "amqp", Sink: notify.NewAMQPSink(client)})
		logger.Info("Publishing notifications to AMQP", "exchange", cfg.AMQPExchange)
	case "redis":
		sink, err := notify.NewRedisSink(ctx, cfg.RedisURL, cfg.RedisChannel)
		if err != nil {
			return err
		}
		closers = append(closers, sink)
		sinks = append(sinks, notify.Named{Name: "redis", Sink: sink})
		logger.Info("Publishing notifications to Redis", "channel", cfg.RedisChannel)
	}

	notifier := notify.New(sinks,
		notify.WithLogger(logger),
		notify.WithFailureFunc(m.NotificationFailed))

	var exporter sheets.ReportExporter
	if cfg.SheetsEnabled() {
		client, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleCredentialsFile(),
		})
		if err != nil {
			return err
		}
		exporter = client
		logger.Info("Initialized Google Sheets export", "sheet", cfg.GoogleSheetName)
	} else {
		exporter = mem.New(50)
		logger.Info("Google Sheets not configured, keeping exports in memory")
	}

	dispatcher := reminders.NewDispatcher(notifier, m, logger)
	scheduler := reminders.NewScheduler(
		func() []core.Member { return memberStore.Snapshot().Members() },
		settingsStore, dispatcher, cfg.ReminderCheckInterval, logger)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Members:            memberStore,
		Settings:           settingsStore,
		Notifier:           notifier,
		Activity:           recorder,
		Reminders:          dispatcher,
		Exporter:           exporter,
		SheetsEnabled:      cfg.SheetsEnabled(),
		Metrics:            m,
		Logger:             logger,
		Theme:              cfg.Theme,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting chama server", "port", cfg.Port, "notify_backend", cfg.NotifyBackend, "members", len(seed))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) error {
			err := srv.Shutdown(ctx)
			for _, c := range closers {
				err = errors.Join(err, c.Close())
			}
			return err
		})
	})

	return g.Wait()
}
