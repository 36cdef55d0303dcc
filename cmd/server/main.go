package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ctrlspike/towerdefense/logging"
	"ctrlspike/towerdefense/logging/sinks"
	transport "ctrlspike/towerdefense/net"
	"ctrlspike/towerdefense/sim"
)

func main() {
	var (
		addr      = flag.String("addr", ":8080", "http listen address")
		seed      = flag.String("seed", "tower-defense", "deterministic run seed")
		shape     = flag.String("path-shape", string(sim.PathDefault), "path generator shape: default, spiral, zigzag, loop, cross")
		maxWaves  = flag.Int("max-waves", 0, "wave ceiling, 0 uses the default")
		tickRate  = flag.Int("tick-rate", 0, "simulation ticks per second, 0 uses the default")
		eventsLog = flag.String("events-log", "", "path to append newline-delimited JSON events to, empty disables the json sink")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := sim.DefaultSimConfig()
	cfg.Seed = *seed
	cfg.PathShape = sim.PathShape(*shape)
	cfg.MaxWaves = *maxWaves
	cfg.TickRate = *tickRate
	if *eventsLog != "" {
		cfg.Logging.EnabledSinks = append(cfg.Logging.EnabledSinks, "json")
		cfg.Logging.JSON.FilePath = *eventsLog
	}

	pub, closeRouter, err := buildPublisher(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to build event router: %v", err)
	}
	defer closeRouter()

	engine := sim.NewEngineWithConfig(pub, cfg)
	hub := transport.NewHub(engine)

	tickRateHz := engine.TickRateHz()
	go hub.Run(ctx, 1000.0/float64(tickRateHz))

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transport.HealthHandler)
	mux.HandleFunc("/diagnostics", hub.DiagnosticsHandler(tickRateHz))
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/save", hub.SaveHandler)
	mux.HandleFunc("/load", hub.LoadHandler)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		<-ctx.Done()
		log.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("server listening on %s (seed=%s, path=%s)", *addr, cfg.Seed, cfg.PathShape)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}

// buildPublisher wires the sinks named in cfg.EnabledSinks behind a
// logging.Router, mirroring the fan-out the router was built for. The
// returned closer flushes and closes every sink; callers must defer it.
func buildPublisher(cfg logging.Config) (logging.Publisher, func(), error) {
	var named []logging.NamedSink
	if cfg.HasSink("console") {
		named = append(named, logging.NamedSink{Name: "console", Sink: sinks.NewConsoleSink(os.Stdout, cfg.Console)})
	}
	if cfg.HasSink("json") && cfg.JSON.FilePath != "" {
		f, err := os.OpenFile(cfg.JSON.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		named = append(named, logging.NamedSink{Name: "json", Sink: sinks.NewJSON(f, cfg.JSON.FlushInterval)})
	}
	if len(named) == 0 {
		return logging.NopPublisher(), func() {}, nil
	}

	router, err := logging.NewRouter(nil, cfg, named)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := router.Close(closeCtx); err != nil {
			log.Printf("event router close: %v", err)
		}
	}
	return router, closer, nil
}
