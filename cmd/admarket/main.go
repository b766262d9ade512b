// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/admarket/internal/tui"
	"github.com/luxfi/admarket/pkg/api"
	"github.com/luxfi/admarket/pkg/config"
	"github.com/luxfi/admarket/pkg/escrow"
	"github.com/luxfi/admarket/pkg/fetch"
	"github.com/luxfi/admarket/pkg/log"
	"github.com/luxfi/admarket/pkg/metric"
	"github.com/luxfi/admarket/pkg/router"
	"github.com/luxfi/admarket/pkg/session"
	"github.com/luxfi/admarket/pkg/storage"
	"github.com/luxfi/admarket/pkg/telegram"
	"github.com/luxfi/admarket/pkg/views"
)

var (
	configPath  = flag.String("config", os.Getenv(config.PathEnv), "Path to a YAML config file")
	showVersion = flag.Bool("version", false, "Print version and exit")
	probeEvery  = flag.Duration("probe-interval", 15*time.Second, "Backend reachability probe interval")

	// Version info
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(flag.CommandLine.Output(), "\n%s", config.Usage())
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("admarket %s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewWithFormat(cfg.Log.Level, cfg.Log.Format)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("admarket stopped", log.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStorage(cfg.Storage.Type, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	metrics, err := metric.NewMetrics()
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	sess, err := session.New(store, logger.With(log.String("component", "session")))
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	client, err := api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Tokens:  sess,
		Logger:  logger.With(log.String("component", "api")),
		Metrics: metrics,
	})
	if err != nil {
		return fmt.Errorf("create api client: %w", err)
	}

	host := telegram.NewStaticHost(cfg.InitData)
	nav := router.New(logger.With(log.String("component", "router")))
	nav.BindBackButton(host.BackButton())

	if err := sess.Init(ctx, host, client); err != nil {
		logger.Warn("continuing without a fresh login", log.Error(err))
	}
	if params, err := telegram.ParseInitData(cfg.InitData); err == nil {
		if id, ok := telegram.StartDealID(params.StartParam); ok {
			nav.Navigate(router.DealPath(id))
		}
	}

	monitor := fetch.NewMonitor(logger.With(log.String("component", "monitor")), metrics)
	banner := fetch.NewBanner()
	unsubscribe := monitor.Subscribe(func(online bool) { banner.Update(online, time.Now()) })
	defer unsubscribe()

	toasts := &views.Toasts{}
	env := &views.Env{
		Log:     logger,
		Metrics: metrics,
		Monitor: monitor,
		Toasts:  toasts,
		Nav:     nav,
		Session: sess,
		Host:    host,
		BotURL:  cfg.BotURL,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := monitor.Run(gctx, client, *probeEvery)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	if cfg.Metrics.Addr != "" {
		srv := metricsServer(cfg.Metrics.Addr, metrics)
		g.Go(func() error {
			logger.Info("metrics server listening", log.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer stop()
		app := tui.New(gctx, tui.Deps{
			Client:  client,
			Env:     env,
			Router:  nav,
			Toasts:  toasts,
			Host:    host,
			Banner:  banner,
			Network: escrow.Network(cfg.TONNetwork),
			Log:     logger,
		})
		err := tui.Run(app, logger, os.Stderr, tea.WithAltScreen(), tea.WithContext(gctx))
		if errors.Is(err, tea.ErrProgramKilled) && gctx.Err() != nil {
			return nil
		}
		return err
	})

	return g.Wait()
}

func metricsServer(addr string, metrics *metric.Metrics) *http.Server {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetGatherer(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
