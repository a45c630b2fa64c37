package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Yulfic/uptime-status/internal/alerts"
	"github.com/Yulfic/uptime-status/internal/config"
	"github.com/Yulfic/uptime-status/internal/eventlog"
	"github.com/Yulfic/uptime-status/internal/scheduler"
	"github.com/Yulfic/uptime-status/internal/server"
	"github.com/Yulfic/uptime-status/internal/uptime"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to configuration file (YAML)")
		addr       = flag.String("addr", "", "address for the web server (overrides config)")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Printf("Loaded %d server(s) from %s", len(cfg.Servers), *configPath)

	listen := cfg.Listen
	if *addr != "" {
		listen = *addr
	}

	store, err := eventlog.Open(filepath.Join(cfg.DataDirectory, "checks.ndjson"))
	if err != nil {
		log.Fatalf("initialise event log: %v", err)
	}

	sched := scheduler.New(
		time.Duration(cfg.CheckIntervalSeconds)*time.Second,
		time.Duration(cfg.RequestTimeoutSeconds)*time.Second,
		cfg.Servers,
		store,
	)
	if notifier := alerts.New(cfg.Alerts); notifier != nil {
		sched.OnRound(notifier.ObserveRound)
		log.Printf("Status change alerts enabled (to %s)", cfg.Alerts.To)
	}
	sched.Start()
	defer sched.Stop()

	reports := uptime.NewService(store, cfg.TargetNames(), cfg.Timezone)
	srv := server.New(listen, cfg.Servers, sched, reports)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("Uptime status listening on %s (interval %d seconds)", listen, cfg.CheckIntervalSeconds)
	if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
