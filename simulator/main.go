package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rook-computer/minihost/internal/clocksync"
	"github.com/rook-computer/minihost/internal/config"
	"github.com/rook-computer/minihost/internal/logging"
	"github.com/rook-computer/minihost/internal/metrics"
	"github.com/rook-computer/minihost/internal/state"
	"github.com/rook-computer/minihost/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", cfg.Web.Listen, "status API listen address; empty disables it")
	devMode := flag.Bool("dev", cfg.Web.Dev, "enable permissive CORS on the status API")
	noSync := flag.Bool("no-sync", !cfg.Time.Sync, "skip the reference time fetch")
	startApp := flag.String("start", cfg.Host.StartApp, "app to run first")
	logFile := flag.String("log", "minihost-sim.log", "log file; the terminal belongs to the UI")
	flag.Parse()

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Development: cfg.Log.Dev, OutputPaths: []string{*logFile}})
	if err != nil {
		fmt.Println("logger error:", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore()
	mets := metrics.New()

	sync := clocksync.New(clocksync.NewMonotonicTicks(nil), cfg.Time.UTCOffset)
	if !*noSync {
		fetcher := clocksync.NewFetcher(cfg.Time.URL, clocksync.FetchOptions{Timeout: cfg.Time.FetchTimeout, Retries: cfg.Time.Retries})
		ok := clocksync.SyncFromNetwork(processCtx, fetcher, sync, logger)
		mets.TimeFetch(ok)
		if ref, captured := sync.Reference(); captured {
			store.UpdateClock(state.ClockInfo{Captured: true, Reference: ref.Remote, Display: sync.Display()})
		}
	}

	sim, err := NewSimulator(SimulatorConfig{
		Sync:      sync,
		Zone:      cfg.Time.ZoneLabel(),
		StatusURL: simStatusURL(*listenAddr),
		Store:     store,
		Metrics:   mets,
		Logger:    logger,
		Interval:  cfg.Host.TickInterval,
	})
	if err != nil {
		fmt.Println("simulator error:", err)
		os.Exit(2)
	}
	if err := sim.Start(*startApp); err != nil {
		fmt.Println("start app error:", err)
		os.Exit(2)
	}

	server := web.New(
		web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode, StaticDir: cfg.Web.StaticDir},
		web.APIV1Config{Deps: web.APIV1Deps{Status: store, Apps: sim.Host}, Metrics: mets.Handler()},
	)
	if httpServer, ok := server.(*web.HTTPServer); ok {
		httpServer.Logger = logger
	}
	if err := server.Start(processCtx); err != nil {
		fmt.Println("server start error:", err)
		os.Exit(1)
	}
	defer func() { _ = server.Stop() }()

	store.SetPhase(state.RUNNING)
	program := tea.NewProgram(sim, tea.WithContext(processCtx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil && processCtx.Err() == nil {
		fmt.Println("simulator error:", err)
		os.Exit(1)
	}
	store.SetPhase(state.STOPPED)
}

func simStatusURL(listen string) string {
	if listen == "" {
		return ""
	}
	if len(listen) > 0 && listen[0] == ':' {
		return "http://127.0.0.1" + listen + "/api/v1/status"
	}
	return "http://" + listen + "/api/v1/status"
}
