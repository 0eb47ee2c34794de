// Package repotest opens throwaway SQLite databases carrying the ledger schema.
package repotest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"dinewallet.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var accountSeq int64

// NewDB returns an in-memory database with every model migrated. The pool is
// limited to one connection so concurrent units of work queue behind each other.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err, "open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...), "migrate")
	return db
}

// MustExec runs a raw statement.
func MustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

// SeedCustomer inserts a customer, optionally referred by referrerID.
func SeedCustomer(t *testing.T, db *gorm.DB, referrerID *uuid.UUID) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&models.Customer{
		ID:         id,
		Name:       "Customer " + id.String()[:8],
		Email:      id.String() + "@example.test",
		ReferrerID: referrerID,
	}).Error)
	return id
}

// SeedRestaurant inserts a restaurant with the given commission rate and creation time.
func SeedRestaurant(t *testing.T, db *gorm.DB, commission string, createdAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&models.Restaurant{
		ID:             id,
		AccountNumber:  atomic.AddInt64(&accountSeq, 1),
		Name:           "Restaurant " + id.String()[:8],
		CommissionRate: decimal.RequireFromString(commission),
		BillingCompany: "Bistro SARL",
		BillingStreet:  "1 rue de la Paix",
		BillingCity:    "Paris",
		BillingZipcode: "75002",
		BillingCountry: "France",
		CreatedAt:      createdAt.UTC(),
		UpdatedAt:      createdAt.UTC(),
	}).Error)
	return id
}

// SeedPromotion inserts a promotion granting amount minor units.
func SeedPromotion(t *testing.T, db *gorm.DB, amount int64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&models.Promotion{ID: id, Name: "Welcome", Amount: amount}).Error)
	return id
}

// SeedReservation inserts an unsettled reservation at the given time.
func SeedReservation(t *testing.T, db *gorm.DB, customerID, restaurantID uuid.UUID, at time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&models.Reservation{
		ID:           id,
		CustomerID:   customerID,
		RestaurantID: restaurantID,
		Status:       "viewed",
		Time:         at.UTC(),
		NbPeople:     2,
		BookingName:  "Dupont",
		Confirmation: "CONF-" + id.String()[:6],
	}).Error)
	return id
}
