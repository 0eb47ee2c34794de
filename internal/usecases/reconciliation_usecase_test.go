package usecases_test

import (
	"context"
	"errors"
	"testing"

	"dinewallet.backend/internal/domain/entities"
	"dinewallet.backend/internal/infrastructure/repositories/repotest"
	"dinewallet.backend/internal/usecases"
	"dinewallet.backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReconcile_ReportsDriftedWallets(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	reservationID, customerID, restaurantID := seedBooking(t, env, nil)
	_, err := env.settlement.CreateReservationTransactions(ctx, reservationID, discountInput(10000, "0.25"))
	require.NoError(t, err)
	env.requireLedgerConsistent(t)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.ReconciliationMismatches))

	repotest.MustExec(t, env.db, "UPDATE wallets SET balance = balance + 7 WHERE owner_type = ? AND owner_id = ?",
		string(entities.OwnerTypeRestaurant), restaurantID)

	found, err := env.reconcile.Reconcile(ctx)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, entities.RestaurantRef(restaurantID), found[0].Owner)
	assert.Equal(t, int64(-2493), found[0].Balance)
	assert.Equal(t, int64(-2500), found[0].LedgerTotal)
	assert.Equal(t, int64(7), found[0].Drift())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ReconciliationMismatches))

	assert.Equal(t, int64(2500), env.balance(t, entities.CustomerRef(customerID)), "reconciliation never repairs")
}

func TestReconcile_ArchivedTransactionsDoNotCount(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	reservationID, _, _ := seedBooking(t, env, nil)
	_, err := env.settlement.CreateReservationTransactions(ctx, reservationID, discountInput(10000, "0.25"))
	require.NoError(t, err)
	_, err = env.settlement.ResetReservationTransactions(ctx, reservationID, contributionInput(10000, 500))
	require.NoError(t, err)

	env.requireLedgerConsistent(t)
}

func TestReconcile_RepositoryError(t *testing.T) {
	uow := new(MockUnitOfWork)
	walletRepo := new(MockWalletRepository)
	txnRepo := new(MockTransactionRepository)
	uc := usecases.NewReconciliationUsecase(uow, walletRepo, txnRepo)

	ctx := context.Background()
	uow.On("Snapshot", ctx, mock.Anything).Return(nil)
	walletRepo.On("List", ctx).Return([]*entities.Wallet{{ID: uuid.New(), Owner: entities.CustomerRef(uuid.New())}}, nil)
	txnRepo.On("ActiveTotalsByWallet", ctx).Return(nil, errors.New("timeout"))

	_, err := uc.Reconcile(ctx)
	assert.EqualError(t, err, "timeout")
}
