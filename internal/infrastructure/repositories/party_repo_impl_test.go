package repositories

import (
	"context"
	"testing"
	"time"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/internal/infrastructure/repositories/repotest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPartyRepositories_CreateAndGet(t *testing.T) {
	db := repotest.NewDB(t)
	ctx := context.Background()

	customers := NewCustomerRepository(db)
	referrer := &entities.Customer{ID: uuid.New(), Name: "Ana", Email: "ana@example.test"}
	require.NoError(t, customers.Create(ctx, referrer))
	referred := &entities.Customer{ID: uuid.New(), Name: "Ben", Email: "ben@example.test", ReferrerID: &referrer.ID}
	require.NoError(t, customers.Create(ctx, referred))

	got, err := customers.GetByID(ctx, referred.ID)
	require.NoError(t, err)
	require.Equal(t, referrer.ID, *got.ReferrerID)
	_, err = customers.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	restaurants := NewRestaurantRepository(db)
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	restaurant := &entities.Restaurant{
		ID: uuid.New(), AccountNumber: 42, Name: "Chez Paul",
		CommissionRate: decimal.RequireFromString("0.15"),
		Billing:        entities.BillingAddress{Company: "Paul SAS", City: "Lyon"},
		CreatedAt:      created,
	}
	require.NoError(t, restaurants.Create(ctx, restaurant))
	gotRestaurant, err := restaurants.GetByID(ctx, restaurant.ID)
	require.NoError(t, err)
	require.Equal(t, int64(42), gotRestaurant.AccountNumber)
	require.Equal(t, "Lyon", gotRestaurant.Billing.City)
	require.True(t, created.Equal(gotRestaurant.CreatedAt))
	require.True(t, gotRestaurant.CommissionRate.Equal(decimal.RequireFromString("0.15")))

	promotions := NewPromotionRepository(db)
	promo := &entities.Promotion{ID: uuid.New(), Name: "Spring", Amount: 1500}
	require.NoError(t, promotions.Create(ctx, promo))
	gotPromo, err := promotions.GetByID(ctx, promo.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1500), gotPromo.Amount)
	_, err = promotions.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRestaurantRepository_LockInsideUnitOfWork(t *testing.T) {
	db := repotest.NewDB(t)
	ctx := context.Background()
	restaurants := NewRestaurantRepository(db)
	restaurantID := repotest.SeedRestaurant(t, db, "0.1", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	err := NewUnitOfWork(db).Do(ctx, func(ctx context.Context) error {
		return restaurants.Lock(ctx, restaurantID)
	})
	require.NoError(t, err)

	require.ErrorIs(t, restaurants.Lock(ctx, uuid.New()), domainerrors.ErrNotFound)
}
