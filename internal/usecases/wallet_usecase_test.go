package usecases_test

import (
	"context"
	"testing"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/internal/usecases"
	"dinewallet.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWalletUsecase_OpenIsIdempotent(t *testing.T) {
	env := newLedgerEnv(t)
	owner := entities.CustomerRef(uuid.New())

	first, err := env.wallet.Open(context.Background(), owner)
	require.NoError(t, err)
	second, err := env.wallet.Open(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(0), second.Balance)
}

func TestWalletUsecase_OpenRejectsInvalidOwner(t *testing.T) {
	uc := usecases.NewWalletUsecase(new(MockUnitOfWork), new(MockWalletRepository), new(MockTransactionRepository))

	_, err := uc.Open(context.Background(), entities.OwnerRef{Type: entities.OwnerTypeCustomer})
	assert.True(t, domainerrors.IsValidation(err))
	_, err = uc.ApplyDelta(context.Background(), entities.OwnerRef{}, 10)
	assert.True(t, domainerrors.IsValidation(err))
}

func TestWalletUsecase_CurrentBalanceWithoutWallet(t *testing.T) {
	walletRepo := new(MockWalletRepository)
	uc := usecases.NewWalletUsecase(new(MockUnitOfWork), walletRepo, new(MockTransactionRepository))
	owner := entities.RestaurantRef(uuid.New())
	walletRepo.On("GetByOwner", mock.Anything, owner).Return(nil, domainerrors.ErrNotFound).Twice()

	balance, err := uc.CurrentBalance(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	_, err = uc.GetWallet(context.Background(), owner)
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestWalletUsecase_ApplyDeltaCreatesAndAccumulates(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	owner := entities.CustomerRef(uuid.New())

	balance, err := env.wallet.ApplyDelta(ctx, owner, 1500)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), balance)

	balance, err = env.wallet.ApplyDelta(ctx, owner, -2000)
	require.NoError(t, err)
	assert.Equal(t, int64(-500), balance, "balances may go negative")
	assert.Equal(t, int64(-500), env.balance(t, owner))
}

func TestWalletUsecase_ListTransactionsPages(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	owner := entities.RestaurantRef(uuid.New())
	adminID := uuid.New()
	for _, amount := range []int64{100, 200, 300} {
		_, err := env.ledger.CreateAdjustment(ctx, entities.AdjustmentInput{Owner: owner, Amount: amount, Reason: "seed", AdminID: adminID})
		require.NoError(t, err)
	}

	items, meta, err := env.wallet.ListTransactions(ctx, owner, false, utils.GetPaginationParams(1, 2))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(600), items[0].FinalBalance, "newest first")
	assert.Equal(t, int64(3), meta.TotalCount)
	assert.Equal(t, 2, meta.TotalPages)

	items, _, err = env.wallet.ListTransactions(ctx, owner, false, utils.GetPaginationParams(2, 2))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(100), items[0].FinalBalance)
}
