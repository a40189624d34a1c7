package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/users-service/internal/config"
	"github.com/Dan9191/users-service/internal/handler"
	"github.com/Dan9191/users-service/internal/logger"
	"github.com/Dan9191/users-service/internal/middleware"
	"github.com/Dan9191/users-service/internal/repository"
	"github.com/Dan9191/users-service/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.NewConfig(os.Args[1:])
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("Failed to create logger: %v", err)
	}

	// Initialize database
	db, dialect, err := repository.OpenDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize layers
	repo := repository.NewRepository(repository.NewDBConnector(db), dialect)
	svc := service.NewService(repo, log.WithField("component", "service"))
	h := handler.NewHandler(svc, log.WithField("component", "handler"))

	metrics, err := middleware.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	// Setup router
	r := newRouter(h, metrics, promhttp.Handler(), log)

	var root http.Handler = r
	if len(cfg.CORSAllowedOrigins) > 0 {
		root = cors.New(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", middleware.HeaderRequestID},
			Debug:          log.IsLevelEnabled(logrus.DebugLevel),
		}).Handler(r)
	}

	// Start server
	addr := cfg.ServerAddr()
	server := &http.Server{
		Addr:         addr,
		Handler:      root,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on %s (%s)", addr, dialect.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Server shutdown incomplete")
	}
	log.Info("Server stopped")
}
