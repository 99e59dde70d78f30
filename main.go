package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/minihost/internal/app"
	"github.com/rook-computer/minihost/internal/app/apps"
	"github.com/rook-computer/minihost/internal/clocksync"
	"github.com/rook-computer/minihost/internal/config"
	"github.com/rook-computer/minihost/internal/logging"
	"github.com/rook-computer/minihost/internal/metrics"
	"github.com/rook-computer/minihost/internal/render"
	"github.com/rook-computer/minihost/internal/state"
	"github.com/rook-computer/minihost/internal/system"
	"github.com/rook-computer/minihost/internal/web"
)

func main() {
	fmt.Println("minihost starting")

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	// Flags override the environment.
	startApp := flag.String("start", cfg.Host.StartApp, "app to run first; also configurable via MINIHOST_HOST_START_APP")
	inputMode := flag.String("input", cfg.Input.Mode, "input source: gpio | keyboard | none")
	fbDevice := flag.String("fb", cfg.Display.Device, "framebuffer device")
	listenAddr := flag.String("listen", cfg.Web.Listen, "status API listen address; empty disables it")
	devMode := flag.Bool("dev", cfg.Web.Dev, "enable permissive CORS on the status API")
	noSync := flag.Bool("no-sync", !cfg.Time.Sync, "skip the reference time fetch")
	stdioLog := flag.String("stdio-log", cfg.Log.StdioFile, "redirect stdout+stderr (including panics) to this file; also configurable via MINIHOST_LOG_STDIO_FILE")
	flag.Parse()

	cfg.Host.StartApp = *startApp
	cfg.Input.Mode = *inputMode
	cfg.Display.Device = *fbDevice
	cfg.Web.Listen = *listenAddr
	cfg.Web.Dev = *devMode
	cfg.Time.Sync = !*noSync
	cfg.Log.StdioFile = *stdioLog
	if err := cfg.Validate(); err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	// Best-effort: the console is in graphics mode while running, so crashes
	// are only diagnosable from the file.
	if cfg.Log.StdioFile != "" {
		if err := redirectStdIO(cfg.Log.StdioFile); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Development: cfg.Log.Dev})
	if err != nil {
		fmt.Println("logger error:", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Errorf("main", "%v", err)
		fmt.Println("minihost error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	store := state.NewStore()
	mets := metrics.New()
	runner := system.ShellRunner{Logger: logger}

	network := newNetwork(ctx, cfg.WiFi, runner, store, logger)
	network.statusURL = func(address string) string { return statusURL(address, cfg.Web.Listen) }
	network.Resolve()

	sync := clocksync.New(clocksync.NewMonotonicTicks(nil), cfg.Time.UTCOffset)
	if cfg.Time.Sync {
		store.SetPhase(state.SYNCING)
		fetcher := clocksync.NewFetcher(cfg.Time.URL, clocksync.FetchOptions{
			Timeout: cfg.Time.FetchTimeout,
			Retries: cfg.Time.Retries,
		})
		ok := clocksync.SyncFromNetwork(ctx, fetcher, sync, logger)
		mets.TimeFetch(ok)
		if ref, captured := sync.Reference(); captured {
			store.UpdateClock(state.ClockInfo{Captured: true, Reference: ref.Remote, Display: sync.Display()})
		}
	}

	inputs, encoder, err := openInputs(ctx, cfg.Input, logger)
	if err != nil {
		return fmt.Errorf("inputs: %w", err)
	}

	renderer := render.NewFBRenderer(cfg.Display.Device)
	renderer.Logger = logger
	if err := renderer.Start(ctx); err != nil {
		return fmt.Errorf("renderer start: %w", err)
	}
	defer renderer.Stop()

	// Switch console to KD_GRAPHICS to suppress hardware cursor
	if err := system.SetGraphicsModeWithLog(logger); err != nil {
		logger.Errorf("tty", "set graphics mode failed: %v", err)
	}
	_ = system.HideCursorWithLog(logger)
	defer func() { _ = system.ShowCursorWithLog(logger); _ = system.RestoreTextModeWithLog(logger) }()

	registry := map[app.ID]app.App{
		app.Clock:  apps.NewClock(renderer, sync, cfg.Time.ZoneLabel()),
		app.Rotary: apps.NewRotary(renderer, encoder),
	}
	info := apps.NewInfo(renderer, network.Address, network.statusURL)
	info.Logger = logger
	registry[app.Info] = info

	menu := apps.NewMenu(renderer, encoder, apps.MenuEntries(registry))
	menu.Logger = logger
	registry[app.Menu] = menu

	host, err := app.NewHost(registry, inputs)
	if err != nil {
		return err
	}
	menu.Host = host
	host.Logger = logger
	host.Store = store
	host.Metrics = mets
	host.Display = renderer
	host.Clock = sync

	if err := host.Run(app.ID(cfg.Host.StartApp)); err != nil {
		return fmt.Errorf("start app: %w", err)
	}

	server := web.New(
		web.ServerConfig{ListenAddr: cfg.Web.Listen, DevMode: cfg.Web.Dev, StaticDir: cfg.Web.StaticDir},
		web.APIV1Config{Deps: web.APIV1Deps{Status: store, Apps: host}, Metrics: mets.Handler()},
	)
	if httpServer, ok := server.(*web.HTTPServer); ok {
		httpServer.Logger = logger
	}
	if err := server.Start(ctx); err != nil {
		logger.Errorf("web", "server start error: %v", err)
	}
	defer func() { _ = server.Stop() }()

	store.SetPhase(state.RUNNING)
	logger.Infof("main", "running %s, tick %s", host.Active(), cfg.Host.TickInterval)
	err = host.Loop(ctx, cfg.Host.TickInterval)
	store.SetPhase(state.STOPPED)
	return err
}
