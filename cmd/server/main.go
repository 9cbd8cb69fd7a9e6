package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/commercekit/epay-gateway/internal/adapters/epay"
	"github.com/commercekit/epay-gateway/internal/adapters/messaging"
	"github.com/commercekit/epay-gateway/internal/adapters/postgres"
	"github.com/commercekit/epay-gateway/internal/config"
	checkoutHandler "github.com/commercekit/epay-gateway/internal/handlers/checkout"
	ordermgmtHandler "github.com/commercekit/epay-gateway/internal/handlers/ordermgmt"
	paymentService "github.com/commercekit/epay-gateway/internal/services/payment"
	"github.com/commercekit/epay-gateway/pkg/logging"
	"github.com/commercekit/epay-gateway/pkg/observability"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Logger)
	defer logger.Sync()

	logger.Info("starting epay gateway service",
		zap.String("version", "1.0.0"),
	)

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, &postgres.PoolConfig{
		DatabaseURL:     cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	})
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	logger.Info("database connection established")

	portLogger := logging.NewZapLogger(logger)

	records := postgres.NewPaymentRecordRepository(pool)
	gateway := epay.NewActionAdapter(cfg.Gateway.BaseURL, &http.Client{
		Timeout: time.Duration(cfg.Gateway.Timeout) * time.Second,
	}, portLogger)
	messenger := messaging.NewLogMessenger(portLogger, 64)

	service := paymentService.NewService(
		gateway,
		records,
		cfg,
		messenger,
		portLogger,
		paymentService.CheckoutURLs{
			AcceptURL:   cfg.Checkout.PublicBaseURL + "/epay/checkout/accept",
			CancelURL:   cfg.Checkout.PublicBaseURL + "/epay/checkout/cancel",
			CallbackURL: cfg.Checkout.PublicBaseURL + "/epay/checkout/callback",
		},
	)

	mux := http.NewServeMux()
	checkoutHandler.NewHandler(service, records, cfg, logger).Register(mux)
	ordermgmtHandler.NewHandler(service, records, logger).Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := records.Healthy(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "ok")
	})

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: mux,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", observability.MetricsHandler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler: metricsMux,
	}

	go func() {
		logger.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to serve HTTP", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("metrics server listening", zap.Int("port", cfg.Server.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to serve metrics", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down servers")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", zap.Error(err))
	}

	logger.Info("servers stopped")
}

func initLogger(cfg config.LoggerConfig) *zap.Logger {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
