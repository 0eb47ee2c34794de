package main

import (
	"context"
	"net/http"
	"time"

	"dinewallet.backend/internal/interfaces/http/handlers"
	"dinewallet.backend/internal/interfaces/http/middleware"
	"dinewallet.backend/pkg/jwt"
	"dinewallet.backend/pkg/metrics"
	"dinewallet.backend/pkg/redis"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

type routeDeps struct {
	settlementHandler *handlers.SettlementHandler
	ledgerHandler     *handlers.LedgerHandler
	walletHandler     *handlers.WalletHandler
	invoiceHandler    *handlers.InvoiceHandler
	adminHandler      *handlers.AdminHandler
	authMiddleware    gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

// registerHealthRoute reports 503 when the database is unreachable. A missing
// redis only degrades the service: writes lose replay protection but still work.
func registerHealthRoute(r *gin.Engine, db *gorm.DB) {
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		status, code := "ok", http.StatusOK
		database, cache := "up", "up"
		if err := pingDatabase(ctx, db); err != nil {
			database, status, code = "down", "unavailable", http.StatusServiceUnavailable
		}
		if err := redis.Ping(ctx); err != nil {
			cache = "down"
			if code == http.StatusOK {
				status = "degraded"
			}
		}
		c.JSON(code, gin.H{"status": status, "database": database, "redis": cache})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func pingDatabase(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	v1.Use(d.authMiddleware)
	{
		// Booking service and admins
		operators := v1.Group("")
		operators.Use(middleware.RequireRole(jwt.RoleBooking, jwt.RoleAdmin))
		{
			operators.POST("/reservations/:id/settlement", middleware.IdempotencyMiddleware(), d.settlementHandler.Settle)
			operators.POST("/reservations/:id/transactions", middleware.IdempotencyMiddleware(), d.settlementHandler.CreateTransactions)
			operators.PUT("/reservations/:id/transactions", middleware.IdempotencyMiddleware(), d.settlementHandler.ResetTransactions)
			operators.GET("/reservations/:id/ledger", d.settlementHandler.GetLedger)

			operators.POST("/promotions/:id/credits", middleware.IdempotencyMiddleware(), d.ledgerHandler.CreditPromotion)
			operators.POST("/referrals", middleware.IdempotencyMiddleware(), d.ledgerHandler.CreateReferral)

			operators.GET("/wallets/:ownerType/:ownerId", d.walletHandler.GetWallet)
			operators.GET("/wallets/:ownerType/:ownerId/transactions", d.walletHandler.ListTransactions)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/adjustments", middleware.IdempotencyMiddleware(), d.ledgerHandler.CreateAdjustment)

			admin.GET("/restaurants/:id/invoice-summary", d.invoiceHandler.GetSummary)
			admin.GET("/restaurants/:id/invoice-dates", d.invoiceHandler.GetDates)
			admin.POST("/restaurants/:id/invoices", middleware.IdempotencyMiddleware(), d.invoiceHandler.CreateInvoice)
			admin.PUT("/invoices/:id/paid", d.invoiceHandler.MarkPaid)

			admin.GET("/reconciliation", d.adminHandler.Reconcile)
		}
	}
}
