// File: app/app.go
package app

import (
	"context"
	"go-ledger-api/config"
	"go-ledger-api/db"
	"go-ledger-api/handler"
	"go-ledger-api/logger"
	"go-ledger-api/repository"
	"go-ledger-api/router"
	"go-ledger-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	// Redis only accelerates the summary endpoint; an unreachable cache is a
	// degraded start, not a failed one.
	var cacheClient service.ICacheClient
	if redisClient, err := db.ConnectRedis(); err != nil {
		logger.Log.WithError(err).Warn("Redis unavailable, summary caching disabled")
	} else {
		cacheClient = redisClient
		defer redisClient.Close()
	}

	// --- Wiring All Layers Together ---
	transactionRepo := repository.NewTransactionRepository(database)
	transactionService := service.NewTransactionService(transactionRepo, cacheClient)
	transactionHandler := handler.NewTransactionHandler(transactionService)

	metrics := handler.NewMetricsMiddleware("ledger", prometheus.DefaultRegisterer)

	r := router.NewRouter(transactionHandler, metrics)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// TestApp wires the full handler stack around caller-supplied collaborators
// so integration tests can drive the real router without a live server.
type TestApp struct {
	Router http.Handler
}

func NewTestApp(repo repository.ITransactionRepository, cacheClient service.ICacheClient) *TestApp {
	transactionService := service.NewTransactionService(repo, cacheClient)
	transactionHandler := handler.NewTransactionHandler(transactionService)

	// A private registry keeps repeated TestApp construction from tripping
	// duplicate collector registration.
	metrics := handler.NewMetricsMiddleware("ledger", prometheus.NewRegistry())

	return &TestApp{
		Router: router.NewRouter(transactionHandler, metrics),
	}
}
