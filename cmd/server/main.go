package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dinewallet.backend/internal/config"
	"dinewallet.backend/internal/infrastructure/jobs"
	"dinewallet.backend/internal/infrastructure/repositories"
	"dinewallet.backend/internal/interfaces/http/handlers"
	"dinewallet.backend/internal/interfaces/http/middleware"
	"dinewallet.backend/internal/usecases"
	"dinewallet.backend/pkg/jwt"
	"dinewallet.backend/pkg/logger"
	"dinewallet.backend/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
			NowFunc:     func() time.Time { return time.Now().UTC() },
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx := context.Background()
	if err := logger.SetLevel(cfg.Server.LogLevel); err != nil {
		logger.Warn(ctx, "Ignoring LOG_LEVEL", zap.Error(err))
	}
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.Warn(ctx, "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(ctx, "Connected to PostgreSQL via GORM")
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	r, reconcileJob := buildServer(db, jwtService, cfg)

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go reconcileJob.Start(jobCtx)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(ctx, "Shutting down server")
		reconcileJob.Stop()
		cancel()
		os.Exit(0)
	}()

	logger.Info(ctx, "DineWallet ledger starting",
		zap.String("port", cfg.Server.Port),
		zap.Int("routes", len(r.Routes())),
	)
	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// buildServer wires repositories, usecases and handlers over db.
func buildServer(db *gorm.DB, jwtService *jwt.JWTService, cfg *config.Config) (*gin.Engine, *jobs.ReconciliationJob) {
	uow := repositories.NewUnitOfWork(db)
	walletRepo := repositories.NewWalletRepository(db)
	txnRepo := repositories.NewTransactionRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	restaurantRepo := repositories.NewRestaurantRepository(db)
	promotionRepo := repositories.NewPromotionRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)

	ledgerUsecase := usecases.NewLedgerUsecase(uow, walletRepo, txnRepo, customerRepo, promotionRepo)
	settlementUsecase := usecases.NewSettlementUsecase(uow, reservationRepo, customerRepo, txnRepo, ledgerUsecase, cfg.Ledger.ReferralReward)
	walletUsecase := usecases.NewWalletUsecase(uow, walletRepo, txnRepo)
	invoiceUsecase := usecases.NewInvoiceUsecase(uow, restaurantRepo, reservationRepo, txnRepo, invoiceRepo,
		cfg.Ledger.TaxMultiplier, cfg.Ledger.InvoiceMinAge)
	reconciliationUsecase := usecases.NewReconciliationUsecase(uow, walletRepo, txnRepo)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r, db)
	registerAPIV1Routes(r, routeDeps{
		settlementHandler: handlers.NewSettlementHandler(settlementUsecase),
		ledgerHandler:     handlers.NewLedgerHandler(ledgerUsecase),
		walletHandler:     handlers.NewWalletHandler(walletUsecase),
		invoiceHandler:    handlers.NewInvoiceHandler(invoiceUsecase),
		adminHandler:      handlers.NewAdminHandler(reconciliationUsecase),
		authMiddleware:    middleware.AuthMiddleware(jwtService),
	})

	return r, jobs.NewReconciliationJob(reconciliationUsecase, cfg.Ledger.ReconcileInterval)
}
