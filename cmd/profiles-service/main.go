package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/profiles-service/internal/config"
	"github.com/pribylovaa/profiles-service/internal/service"
	"github.com/pribylovaa/profiles-service/internal/storage"
	"github.com/pribylovaa/profiles-service/internal/storage/dataapi"
	psmongo "github.com/pribylovaa/profiles-service/internal/storage/mongo"
	transport "github.com/pribylovaa/profiles-service/internal/transport/http"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting profiles-service", "env", cfg.Env, "db_type", cfg.DB.Type)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	store, err := newStorage(dbCtx, cfg)
	dbCancel()
	if err != nil {
		log.Error("storage_connect_failed",
			slog.String("db_type", cfg.DB.Type),
			slog.String("err", err.Error()),
		)
		os.Exit(1)
	}
	log.Info("storage_connected", slog.String("db_type", cfg.DB.Type))

	svc := service.New(store, *cfg)
	log.Info("service_initialized")

	apiHandler := transport.NewRouter(svc, transport.Options{
		Logger:  log,
		Timeout: cfg.Timeouts.Service,
	})

	// HTTP readiness/liveness/metrics + приложение на одном сервере.
	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", apiHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		_ = store.Close(context.Background())
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("service_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	_ = store.Close(context.Background())

	log.Info("service_stopped")
}

// newStorage — единственное место в программе, где читается селектор
// бэкенда: дальше фасад работает с интерфейсом без ветвлений.
func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.DB.Type {
	case config.DBTypeMongo:
		return psmongo.New(ctx, cfg.DB.Mongo)
	case config.DBTypeHCD:
		return dataapi.New(ctx, cfg.DB.HCD)
	default:
		// validate() не пропустит сюда неизвестный тип, но switch обязан
		// быть полным.
		return nil, fmt.Errorf("unsupported db type %q", cfg.DB.Type)
	}
}

// setupLogger — выбор хендлера и уровня по окружению.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
