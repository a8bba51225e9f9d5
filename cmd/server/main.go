package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/dutchlock/dutchlock/internal/auth"
	"github.com/dutchlock/dutchlock/internal/middleware"
	"github.com/dutchlock/dutchlock/internal/monitor"
	"github.com/dutchlock/dutchlock/internal/service"
	"github.com/dutchlock/dutchlock/internal/storage/sqlite"
	"github.com/dutchlock/dutchlock/pkg/logging"
	"github.com/dutchlock/dutchlock/pkg/protocol"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	addr := getEnv("ADDR", ":8080")
	dbPath := getEnv("DB_PATH", "./data/dutchlock.db")
	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	feeBps := uint64(protocol.DefaultFeeBps)
	if v := os.Getenv("FEE_BPS"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			slog.Error("Invalid FEE_BPS", "value", v, "error", err)
			os.Exit(1)
		}
		feeBps = parsed
	}

	monitorInterval := 5 * time.Second
	if v := os.Getenv("MONITOR_INTERVAL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			slog.Error("Invalid MONITOR_INTERVAL", "value", v, "error", err)
			os.Exit(1)
		}
		monitorInterval = parsed
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	jwtManager := auth.NewJWTManager(jwtSecret, 24*time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)
	requireAuth := middleware.RequireAuth(jwtManager)

	mux := http.NewServeMux()
	service.NewAuthService(authenticator, jwtManager).Register(mux)
	service.NewEscrowService(store).Register(mux, requireAuth)
	service.NewAuctionService(store, feeBps).Register(mux, requireAuth)
	service.NewSettlementService(store).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mon := monitor.New(store, monitorInterval)
	go mon.Run(ctx)
	defer mon.Stop()

	handler := middleware.Logging(middleware.CORS(mux))
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	server := &http.Server{Addr: addr, Handler: h2cHandler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	slog.Info("Coordinator starting", "address", addr, "fee_bps", feeBps)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
