package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file

	appService "github.com/game-hipe/remembering/internal/application/service"
	"github.com/game-hipe/remembering/internal/infrastructure/database/sqlite"
	lineClient "github.com/game-hipe/remembering/internal/infrastructure/line"
	"github.com/game-hipe/remembering/internal/infrastructure/scheduler"
	"github.com/game-hipe/remembering/internal/interfaces/api/handler"
	"github.com/game-hipe/remembering/internal/interfaces/api/router"
	appLogger "github.com/game-hipe/remembering/internal/pkg/logger"
	"github.com/game-hipe/remembering/internal/pkg/ttlcache"
)

// retentionCleanupSpec runs the retention job every day at 04:00.
const retentionCleanupSpec = "0 0 4 * * *"

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("WARN: invalid %s=%q, using %d", name, raw, fallback)
		return fallback
	}
	return v
}

func gracefulShutdown(apiServer *http.Server, stopNotifier context.CancelFunc, cronScheduler *scheduler.Scheduler, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Println("Shutting down gracefully, press Ctrl+C again to force")

	// Stop background work first so no sends race the teardown
	stopNotifier()
	cronScheduler.Stop()

	if err := sqlite.CloseDB(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	done <- true
}

func main() {
	appLog := appLogger.New()

	port := envInt("PORT", 8080)
	batchSize := envInt("NOTIFY_BATCH_SIZE", appService.DefaultBatchSize)
	interval := time.Duration(envInt("NOTIFY_INTERVAL", int(appService.DefaultInterval.Seconds()))) * time.Second
	ratePerSec := envInt("SEND_RATE_PER_SEC", 10)
	retentionDays := envInt("RETENTION_DAYS", 0)
	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "media"
	}

	// --- Infrastructure ---
	db := sqlite.NewDB()
	userRepo := sqlite.NewUserRepository(db)
	memoryRepo := sqlite.NewMemoryRepository(db)
	appLog.Info("Database and repositories initialized.")

	line := lineClient.NewClient(appLog)
	cronScheduler := scheduler.NewScheduler(appLog)

	// --- Application Services ---
	userSvc := appService.NewUserService(userRepo, memoryRepo, appLog)
	memorySvc := appService.NewMemoryService(memoryRepo, userRepo, appLog)
	notifierSvc := appService.NewNotifierService(userRepo, line, appLog, batchSize, interval, ratePerSec)
	appLog.Info("Application services initialized.")

	// --- Background work ---
	notifierCtx, stopNotifier := context.WithCancel(context.Background())
	go notifierSvc.Start(notifierCtx)

	if retentionDays > 0 {
		age := time.Duration(retentionDays) * 24 * time.Hour
		_, err := cronScheduler.AddJob(retentionCleanupSpec, func() {
			if err := memorySvc.CleanupOlderThan(context.Background(), age); err != nil {
				appLog.Error("Retention cleanup failed", err)
			}
		})
		if err != nil {
			appLog.Error("Failed to schedule retention cleanup", err)
		}
	}

	// --- API ---
	seen := ttlcache.New(65536, 12*time.Hour)
	lineHandler := handler.NewLineHandler(line, userSvc, memorySvc, seen, mediaDir, appLog)
	echoRouter := router.NewRouter(&router.Config{
		LineHandler: lineHandler,
		Logger:      appLog,
	})

	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, stopNotifier, cronScheduler, done)

	appLog.Info(fmt.Sprintf("Server starting on port %d", port))
	err := apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		appLog.Error("HTTP server ListenAndServe error", err)
		panic(fmt.Sprintf("http server error: %s", err))
	}

	<-done
	appLog.Info("Graceful shutdown complete.")
}
