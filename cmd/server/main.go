// Command server runs the estudio backend HTTP API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	billingapp "github.com/estudio/backend/internal/application/billing"
	practiceapp "github.com/estudio/backend/internal/application/practice"
	reportapp "github.com/estudio/backend/internal/application/report"
	"github.com/estudio/backend/internal/infrastructure/auth"
	"github.com/estudio/backend/internal/infrastructure/config"
	"github.com/estudio/backend/internal/infrastructure/event"
	"github.com/estudio/backend/internal/infrastructure/lock"
	"github.com/estudio/backend/internal/infrastructure/logger"
	"github.com/estudio/backend/internal/infrastructure/persistence"
	"github.com/estudio/backend/internal/infrastructure/storage"
	httpapi "github.com/estudio/backend/internal/interfaces/http"
	"github.com/estudio/backend/internal/interfaces/http/handler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	log.Info("starting estudio backend",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port))

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	gormLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		gormLevel = gormlogger.Info
	}

	db, err := persistence.NewDatabase(&cfg.Database, logger.NewGormLogger(log, gormLevel))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("close database", zap.Error(err))
		}
	}()

	objectStorage, err := buildStorage(cfg, log)
	if err != nil {
		return fmt.Errorf("configure storage: %w", err)
	}

	// Auth is enabled whenever a JWT secret is configured. Without one the
	// API runs open, which config.Load only allows outside production.
	var (
		jwtService *auth.JWTService
		blacklist  auth.TokenBlacklist
	)
	if cfg.JWT.Secret != "" {
		jwtService = auth.NewJWTService(cfg.JWT)
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			if cfg.IsProduction() {
				return fmt.Errorf("connect redis: %w", err)
			}
			log.Warn("redis unavailable, using in-memory token blacklist", zap.Error(err))
			blacklist = auth.NewInMemoryTokenBlacklist()
		} else {
			blacklist = redisBlacklist
		}
	} else {
		log.Warn("jwt secret not configured, API is served unauthenticated")
	}

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(event.NewAuditLogHandler(log))

	clienteRepo := persistence.NewGormClienteRepository(db.DB)
	expedienteRepo := persistence.NewGormExpedienteRepository(db.DB)
	eventoRepo := persistence.NewGormEventoRepository(db.DB)
	adjuntoRepo := persistence.NewGormAdjuntoRepository(db.DB)
	ingresoRepo := persistence.NewGormIngresoRepository(db.DB)
	cuotaRepo := persistence.NewGormCuotaRepository(db.DB)
	planRepo := persistence.NewGormPlanDePagoRepository(db.DB)
	allocationRepo := persistence.NewGormAllocationRepository(db.DB)
	gastoRepo := persistence.NewGormGastoRepository(db.DB)
	honorarioRepo := persistence.NewGormHonorarioRepository(db.DB)
	balanceRepo := persistence.NewGormBalanceReportRepository(db.DB)

	scope := persistence.NewGormTransactionScope(db.DB)
	locks := lock.NewManager(cfg.Lock.AcquireTimeout)

	clientes := practiceapp.NewClienteService(clienteRepo, bus, log)
	expedientes := practiceapp.NewExpedienteService(expedienteRepo, eventoRepo, clienteRepo, bus, log)
	adjuntos := practiceapp.NewAdjuntoService(adjuntoRepo, expedienteRepo, objectStorage, log)
	ingresos := billingapp.NewIngresoService(scope, ingresoRepo, allocationRepo, locks, bus, log)
	planes := billingapp.NewPlanService(scope, planRepo, cuotaRepo, allocationRepo, bus, log)
	costos := billingapp.NewCostoService(gastoRepo, honorarioRepo, log)
	reports := reportapp.NewAggregationService(balanceRepo, log)

	engine := httpapi.NewRouter(httpapi.RouterConfig{
		Config:         cfg,
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		System:         handler.NewSystemHandler(db),
		Clientes:       handler.NewClienteHandler(clientes),
		Expedientes:    handler.NewExpedienteHandler(expedientes),
		Adjuntos:       handler.NewAdjuntoHandler(adjuntos),
		Planes:         handler.NewPlanHandler(planes),
		Costos:         handler.NewCostoHandler(costos),
		Ingresos:       handler.NewIngresoHandler(ingresos),
		Reports:        handler.NewReportHandler(reports),
	})

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.App.Port),
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// buildStorage picks the object store that backs expediente adjuntos
func buildStorage(cfg *config.Config, log *zap.Logger) (practiceapp.ObjectStorageService, error) {
	switch cfg.Storage.Provider {
	case "s3":
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3Storage, nil
	default:
		log.Info("using local object storage", zap.String("dir", cfg.Storage.LocalDir))
		return storage.NewLocalObjectStorage(cfg.Storage.LocalDir)
	}
}
