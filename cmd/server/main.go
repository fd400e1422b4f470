package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/debtdesk/api/internal/config"
	"github.com/stwalsh4118/debtdesk/api/internal/database"
	"github.com/stwalsh4118/debtdesk/api/internal/docgen"
	"github.com/stwalsh4118/debtdesk/api/internal/handlers"
	"github.com/stwalsh4118/debtdesk/api/internal/logger"
	"github.com/stwalsh4118/debtdesk/api/internal/middleware"
	"github.com/stwalsh4118/debtdesk/api/internal/repository"
	"github.com/stwalsh4118/debtdesk/api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 30 * time.Second
	writeTimeout    = 60 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	log.Info("Starting debt administration API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	if err := handlers.RegisterValidators(); err != nil {
		log.Fatal("Failed to register validators", err, nil)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	cadasterRepo := repository.NewCadasterRepository(db)
	debtorRepo := repository.NewDebtorRepository(db)
	chargeRepo := repository.NewDebtChargeRepository(db)
	logRepo := repository.NewLogRepository(db)
	requisiteRepo := repository.NewRequisiteRepository(db)

	docs := docgen.New(docgen.Paths{
		DebtorTemplate:       cfg.Documents.DebtorTemplatePath(),
		NotificationTemplate: cfg.Documents.NotificationTemplatePath(),
		QRImage:              cfg.Documents.QRImagePath(),
	})

	cadasterService := services.NewCadasterService(cadasterRepo, log, cfg.Import.BatchSize)
	debtorService := services.NewDebtorService(debtorRepo, cadasterRepo, requisiteRepo, docs, log)
	chargeService := services.NewDebtChargeService(chargeRepo, debtorRepo, docs, log, cfg.Import.BatchSize)
	logService := services.NewLogService(logRepo, log)

	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Blacklist(logService))
	v1.GET("/info", healthHandler.Info)

	api := v1.Group("")
	api.Use(middleware.JWTAuth(cfg.Auth.JWTSecret))
	handlers.NewCadasterHandler(cadasterService, cfg.Import.MaxUploadBytes).Register(api)
	handlers.NewDebtorHandler(debtorService).Register(api)
	handlers.NewDebtChargeHandler(chargeService, cfg.Import.MaxUploadBytes).Register(api)
	handlers.NewLogHandler(logService).Register(api)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		ErrorLog:          stdlog.New(log.GetZerolog(), "", 0),
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
