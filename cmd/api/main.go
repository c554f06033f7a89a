package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-api/internal/application/service"
	"github.com/sangkips/pharmacy-api/internal/config"
	domainRepo "github.com/sangkips/pharmacy-api/internal/domain/repository"
	"github.com/sangkips/pharmacy-api/internal/infrastructure/database"
	"github.com/sangkips/pharmacy-api/internal/infrastructure/repository"
	"github.com/sangkips/pharmacy-api/internal/infrastructure/repository/memory"
	"github.com/sangkips/pharmacy-api/internal/infrastructure/repository/mongostore"
	"github.com/sangkips/pharmacy-api/internal/presentation/http/handler"
	"github.com/sangkips/pharmacy-api/internal/presentation/http/middleware"
	"github.com/sangkips/pharmacy-api/internal/presentation/http/routes"
	"github.com/sangkips/pharmacy-api/pkg/printer"
	"github.com/sangkips/pharmacy-api/pkg/storage"
	"github.com/sangkips/pharmacy-api/pkg/utils"
)

// stores bundles the adapters selected by STORE_DRIVER
type stores struct {
	medicines   domainRepo.MedicineRepository
	records     domainRepo.DispenseRecordRepository
	idempotency domainRepo.IdempotencyRepository
	close       func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
		return &stores{
			medicines:   repository.NewMedicineRepository(db),
			records:     repository.NewDispenseRecordRepository(db),
			idempotency: repository.NewIdempotencyRepository(db),
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil

	case config.StoreMemory:
		log.Printf("Warning: using the in-memory store, data is lost on restart")
		return &stores{
			medicines:   memory.NewMedicineRepository(),
			records:     memory.NewDispenseRecordRepository(),
			idempotency: memory.NewIdempotencyRepository(),
			close:       func() {},
		}, nil

	default:
		if cfg.StoreDriver != config.StoreMongo {
			log.Printf("Warning: unknown STORE_DRIVER %q, using %s", cfg.StoreDriver, config.StoreMongo)
		}
		client, db, err := database.NewMongoDB(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return &stores{
			medicines:   mongostore.NewMedicineRepository(db),
			records:     mongostore.NewDispenseRecordRepository(db),
			idempotency: mongostore.NewIdempotencyRepository(db),
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Disconnect(ctx)
			},
		}, nil
	}
}

// purgeIdempotencyKeys drops expired keys until ctx is done
func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := repo.DeleteExpired(ctx, now); err != nil {
				log.Printf("Warning: failed to purge idempotency keys: %v", err)
			}
		}
	}
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer st.close()

	loc := cfg.Location()

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	if cfg.AuthEnabled && cfg.Operator.PasswordHash == "" {
		log.Printf("Warning: OPERATOR_PASSWORD_HASH is empty, login is disabled")
	}

	archive, err := storage.New(storage.Config{
		Driver:    cfg.Storage.Driver,
		LocalPath: cfg.Storage.Path,
		Bucket:    cfg.Storage.S3Bucket,
		Region:    cfg.Storage.S3Region,
		Endpoint:  cfg.Storage.S3Endpoint,
		AccessKey: cfg.Storage.S3AccessKey,
		SecretKey: cfg.Storage.S3SecretKey,
		Prefix:    cfg.Storage.S3Prefix,
	})
	if err != nil {
		log.Printf("Warning: archive storage disabled: %v", err)
		archive = nil
	}

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.Target)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	// Initialize services
	authService := service.NewAuthService(service.Operator{
		Username:     cfg.Operator.Username,
		DisplayName:  cfg.Operator.DisplayName,
		PasswordHash: cfg.Operator.PasswordHash,
	}, jwtManager)
	medicineService := service.NewMedicineService(st.medicines, service.NewMedicineValidator())
	reportService := service.NewReportService(st.medicines, medicineService, archive, loc)
	dispenseService := service.NewDispenseService(st.medicines, st.records, cfg.Business, loc)
	analyticsService := service.NewAnalyticsService(st.records, loc)
	printerService := service.NewPrinterService(dispenseService, thermalPrinter, cfg.Printer.Type, cfg.Printer.PaperWidth, archive)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Medicine:  handler.NewMedicineHandler(medicineService, reportService, cfg.Storage.UploadMaxSize),
		Dispense:  handler.NewDispenseHandler(dispenseService, printerService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	limiter := middleware.NewClientRateLimiter(
		middleware.RateLimiterConfigFromWindow(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer limiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: st.idempotency,
		RateLimiter:     limiter,
	})

	go purgeIdempotencyKeys(ctx, st.idempotency, time.Hour)

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s, store: %s", cfg.App.Env, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: graceful shutdown failed: %v", err)
	}
}
