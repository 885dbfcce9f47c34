package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"practice_tracker/internal/api"
	"practice_tracker/internal/app/service"
	"practice_tracker/internal/common/security"
	"practice_tracker/internal/domain/repository"
	"practice_tracker/internal/platform/cache"
	"practice_tracker/internal/platform/config"
	"practice_tracker/internal/platform/database"
	"practice_tracker/internal/platform/logging"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	log := logging.NewStderr(logging.ParseLevel(cfg.LogLevel, cfg.IsProduction()))
	apiLog := log.WithPrefix("API")
	dbLog := log.WithPrefix("DB")
	log.Infof("Configuration loaded (env=%s)", cfg.AppEnv)

	ctx := context.Background()

	// 2. Initialize Identity
	idp := security.NewJWTIdentity(cfg.JWTKey, cfg.JWTExp)

	// 3. Initialize Database
	db, err := database.Connect(ctx, cfg, dbLog)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	defer database.Close(db, dbLog)
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			dbLog.Errorf("%v", err)
			os.Exit(1)
		}
		dbLog.Infof("Schema applied")
	}

	// 4. Initialize the stats cache: Redis when configured, in-process otherwise.
	var statsCache cache.StatsCache
	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg, log)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		defer cache.CloseRedis(rdb, log)
		statsCache = cache.NewRedisStatsCache(rdb, cfg.StatsCacheTTL, log)
	} else {
		statsCache = cache.NewMemStatsCache(cfg.StatsCacheSize, cfg.StatsCacheTTL)
		log.Infof("REDIS_ADDR not set, using in-process stats cache")
	}

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	problemRepo := repository.NewPgProblemRepository(db)
	attemptRepo := repository.NewPgAttemptRepository(db)
	transactor := repository.NewTransactor(db)

	// 6. Initialize Services
	services := api.Services{
		Problems:  service.NewProblemService(problemRepo, userRepo, transactor, statsCache, apiLog),
		Attempts:  service.NewAttemptService(attemptRepo, problemRepo, statsCache, apiLog),
		Dashboard: service.NewDashboardService(problemRepo, attemptRepo, statsCache, apiLog),
	}

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(cfg, idp, services, apiLog)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infof("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Could not listen on %s: %v", cfg.APIPort, err)
			stop <- syscall.SIGTERM
		}
	}()

	<-stop // Wait for interrupt signal

	log.Infof("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}
	log.Infof("Server stopped gracefully")
}
